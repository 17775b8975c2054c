// internal/app/directory/tools.go
package directory

import (
	"context"
	"sort"
	"strings"

	"github.com/jowpereira/mcp-server/internal/domain/fault"
	"github.com/jowpereira/mcp-server/internal/domain/models"
	"go.uber.org/zap"
)

// ToolRef is a group's view of one attached tool. Definition is nil
// when the catalog no longer has the id; the attachment is kept and
// surfaced as missing instead of failing the listing.
type ToolRef struct {
	ID         string
	Definition *models.Tool
}

// CreateTool adds an entry to the global tool catalog.
func (s *Service) CreateTool(ctx context.Context, id string, tool models.Tool) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fault.Invalid("id da ferramenta é obrigatório")
	}
	if strings.TrimSpace(tool.Name) == "" {
		return fault.Invalid("nome da ferramenta é obrigatório")
	}
	err := s.update(ctx, "create_tool", func(snap *models.Snapshot) error {
		if _, ok := snap.Tools[id]; ok {
			return fault.Conflict("ferramenta %q já existe", id)
		}
		t := tool
		snap.Tools[id] = &t
		return nil
	})
	if err == nil {
		s.log.Info("tool created", zap.String("tool", id))
	}
	return err
}

// UpdateTool replaces a catalog entry.
func (s *Service) UpdateTool(ctx context.Context, id string, tool models.Tool) error {
	return s.update(ctx, "update_tool", func(snap *models.Snapshot) error {
		if _, ok := snap.Tools[id]; !ok {
			return fault.NotFound("ferramenta %q não encontrada", id)
		}
		t := tool
		snap.Tools[id] = &t
		return nil
	})
}

// DeleteTool removes a catalog entry. Group attachments pointing at
// the id are left in place; listings then report the definition as
// missing, which is the tolerated dangling-reference state.
func (s *Service) DeleteTool(ctx context.Context, id string) error {
	err := s.update(ctx, "delete_tool", func(snap *models.Snapshot) error {
		if _, ok := snap.Tools[id]; !ok {
			return fault.NotFound("ferramenta %q não encontrada", id)
		}
		delete(snap.Tools, id)
		return nil
	})
	if err == nil {
		s.log.Info("tool deleted", zap.String("tool", id))
	}
	return err
}

// ListTools returns the catalog ids, sorted.
func (s *Service) ListTools(ctx context.Context) (map[string]models.Tool, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.Tool, len(snap.Tools))
	for id, t := range snap.Tools {
		out[id] = *t
	}
	return out, nil
}

// GetTool returns one catalog entry.
func (s *Service) GetTool(ctx context.Context, id string) (models.Tool, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return models.Tool{}, err
	}
	t, ok := snap.Tools[id]
	if !ok {
		return models.Tool{}, fault.NotFound("ferramenta %q não encontrada", id)
	}
	return *t, nil
}

// AttachTool links a catalog tool to a group. The tool must exist in
// the catalog; attaching twice is a conflict.
func (s *Service) AttachTool(ctx context.Context, group, toolID string) error {
	err := s.update(ctx, "attach_tool", func(snap *models.Snapshot) error {
		g, ok := snap.Groups[group]
		if !ok {
			return fault.NotFound("grupo %q não encontrado", group)
		}
		if _, ok := snap.Tools[toolID]; !ok {
			return fault.NotFound("ferramenta %q não existe no catálogo", toolID)
		}
		if g.HasTool(toolID) {
			return fault.Conflict("ferramenta %q já está no grupo %q", toolID, group)
		}
		g.AddTool(toolID)
		return nil
	})
	if err == nil {
		s.log.Info("tool attached", zap.String("group", group), zap.String("tool", toolID))
	}
	return err
}

// DetachTool unlinks a tool from a group.
func (s *Service) DetachTool(ctx context.Context, group, toolID string) error {
	err := s.update(ctx, "detach_tool", func(snap *models.Snapshot) error {
		g, ok := snap.Groups[group]
		if !ok {
			return fault.NotFound("grupo %q não encontrado", group)
		}
		if !g.HasTool(toolID) {
			return fault.NotFound("ferramenta %q não está no grupo %q", toolID, group)
		}
		g.RemoveTool(toolID)
		return nil
	})
	if err == nil {
		s.log.Info("tool detached", zap.String("group", group), zap.String("tool", toolID))
	}
	return err
}

// GroupTools lists a group's attachments joined against the catalog,
// sorted by id. Dangling ids come back with a nil Definition.
func (s *Service) GroupTools(ctx context.Context, group string) ([]ToolRef, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	g, ok := snap.Groups[group]
	if !ok {
		return nil, fault.NotFound("grupo %q não encontrado", group)
	}
	refs := make([]ToolRef, 0, len(g.Tools))
	for _, id := range g.Tools {
		ref := ToolRef{ID: id}
		if t, ok := snap.Tools[id]; ok {
			def := *t
			ref.Definition = &def
		}
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs, nil
}
