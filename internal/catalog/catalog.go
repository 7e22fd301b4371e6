// Package catalog tracks every known permission identifier and its owning
// extension. Wildcard entries in groups are expanded against the catalog for
// display and enumeration only; the allow/deny fast path stays a prefix test.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"permission-engine/internal/repository"
	"permission-engine/internal/repository/model"
)

type Catalog struct {
	logger *zap.SugaredLogger
	repo   repository.Repository

	// onChange runs after the node set changes so memoized wildcard
	// expansions can be dropped. Set before any background loop starts.
	onChange func()

	mu          sync.RWMutex
	nodes       map[string]*model.PermissionNode
	byExtension map[string]map[string]struct{}
}

func NewCatalog(logger *zap.SugaredLogger, repo repository.Repository) *Catalog {
	return &Catalog{
		logger:      logger,
		repo:        repo,
		nodes:       make(map[string]*model.PermissionNode),
		byExtension: make(map[string]map[string]struct{}),
	}
}

// OnChange registers fn to run after every node-set change (registration,
// extension removal, rediscovery).
func (c *Catalog) OnChange(fn func()) {
	c.onChange = fn
}

// Load replaces the in-memory catalog with the persisted node set.
func (c *Catalog) Load(ctx context.Context) error {
	nodes, err := c.repo.GetAllPermissionNodes(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.nodes = make(map[string]*model.PermissionNode, len(nodes))
	c.byExtension = make(map[string]map[string]struct{})
	for _, node := range nodes {
		c.putLocked(node)
	}
	c.mu.Unlock()

	c.notifyChanged()
	return nil
}

// RegisterNodes records an extension's declared capability list and persists
// it. Re-registering an extension replaces nothing implicitly; nodes are
// upserted by identifier.
func (c *Catalog) RegisterNodes(ctx context.Context, extension string, nodes []*model.PermissionNode) error {
	if err := c.repo.SavePermissionNodes(ctx, extension, nodes); err != nil {
		return err
	}

	c.mu.Lock()
	for _, node := range nodes {
		node.Extension = extension
		c.putLocked(node)
	}
	c.mu.Unlock()

	c.notifyChanged()
	return nil
}

// RemoveExtension drops every node owned by the extension, in memory and in
// the store. Called when the owning extension unloads.
func (c *Catalog) RemoveExtension(ctx context.Context, extension string) error {
	if err := c.repo.RemoveExtensionNodes(ctx, extension); err != nil {
		return err
	}

	c.mu.Lock()
	for nodeName := range c.byExtension[extension] {
		delete(c.nodes, nodeName)
	}
	delete(c.byExtension, extension)
	c.mu.Unlock()

	c.notifyChanged()
	return nil
}

// Nodes returns a snapshot of every known catalog entry, sorted by node name.
func (c *Catalog) Nodes() []*model.PermissionNode {
	c.mu.RLock()
	nodes := make([]*model.PermissionNode, 0, len(c.nodes))
	for _, node := range c.nodes {
		nodes = append(nodes, node)
	}
	c.mu.RUnlock()

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Node < nodes[j].Node })
	return nodes
}

// Expand resolves a wildcard entry ("essentials.*" or "*") to every known
// node sharing its prefix. Non-wildcard input returns just itself.
func (c *Catalog) Expand(wildcard string) []string {
	if !strings.HasSuffix(wildcard, "*") {
		return []string{wildcard}
	}
	prefix := strings.TrimSuffix(wildcard, "*")

	c.mu.RLock()
	matched := make([]string, 0)
	for name := range c.nodes {
		if strings.HasPrefix(name, prefix) {
			matched = append(matched, name)
		}
	}
	c.mu.RUnlock()

	sort.Strings(matched)
	return matched
}

// RunRediscovery periodically reloads the catalog from the repository so
// nodes registered by other instances become visible. Failures are logged
// and retried on the next tick; this is maintenance, not correctness.
func (c *Catalog) RunRediscovery(ctx context.Context, wg *sync.WaitGroup, interval time.Duration) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.Load(ctx); err != nil {
					c.logger.Errorw("failed to rediscover permission nodes", "error", err)
				}
			}
		}
	}()
}

func (c *Catalog) notifyChanged() {
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Catalog) putLocked(node *model.PermissionNode) {
	c.nodes[node.Node] = node
	set, ok := c.byExtension[node.Extension]
	if !ok {
		set = make(map[string]struct{})
		c.byExtension[node.Extension] = set
	}
	set[node.Node] = struct{}{}
}
