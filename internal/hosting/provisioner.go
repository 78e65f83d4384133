package hosting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roomify/roomify-backend/internal/store"
)

// hostingConfigKey is the per-owner cache slot holding the provisioned
// namespace. One slot per owner, written exactly once on the happy path.
const hostingConfigKey = "hosting:config"

// Provisioner lazily creates a publishing namespace per owner and caches
// the handle in the owner's key/value store so later calls never touch the
// provider again.
type Provisioner struct {
	kv       store.KV
	provider Provider
}

func NewProvisioner(kv store.KV, provider Provider) *Provisioner {
	return &Provisioner{kv: kv, provider: provider}
}

// GetOrCreate returns the owner's namespace, provisioning it on first use.
// Two concurrent first calls may both provision; the last cache write wins
// and the orphaned namespace is never referenced again.
func (p *Provisioner) GetOrCreate(ctx context.Context, ownerID string) (*Namespace, error) {
	data, err := p.kv.Get(ctx, ownerID, hostingConfigKey)
	if err == nil {
		var ns Namespace
		// A damaged or empty slot is treated as absent, not fatal.
		if jsonErr := json.Unmarshal(data, &ns); jsonErr == nil && ns.Handle != "" {
			return &ns, nil
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to read hosting config: %w", err)
	}

	handle := newSlug()
	ns, err := p.provider.CreateNamespace(ctx, handle, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to provision namespace: %w", err)
	}

	record, err := json.Marshal(ns)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hosting config: %w", err)
	}
	if err := p.kv.Set(ctx, ownerID, hostingConfigKey, record); err != nil {
		return nil, fmt.Errorf("failed to cache hosting config: %w", err)
	}

	return ns, nil
}
