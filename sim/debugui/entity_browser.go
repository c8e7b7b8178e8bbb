package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/sim"
)

type EntityInfo struct {
	ID       ecs.EntityId
	Label    string
	Type     string
	X, Y     float64
	Radius   float64
	Attrs    int
	Effects  int
	Velocity float64
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowser(maxEntitiesPerPage int) EntityBrowser {
	return EntityBrowser{
		cache: &EntityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowser) Render(world *sim.World) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCache(world)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterType = ""
	}
	if eb.filterType != "" {
		imgui.SameLine()
		imgui.Text(fmt.Sprintf("type: %s", eb.filterType))
	}

	filteredEntities := eb.filtered()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 6, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Type")
		imgui.TableSetupColumn("Position")
		imgui.TableSetupColumn("Speed")
		imgui.TableSetupColumn("Attrs")
		imgui.TableSetupColumn("Effects")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityId == entity.ID
			if imgui.SelectableBoolV(entity.Label, isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(entity.Type)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("(%.1f, %.1f)", entity.X, entity.Y))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.1f", entity.Velocity))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.Attrs))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.Effects))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		eb.currentPage = min(eb.currentPage, totalPages-1)
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		eb.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// rebuildCache snapshots every live entity. Entities move every tick so the
// cache is rebuilt on each render.
func (eb *EntityBrowser) rebuildCache(world *sim.World) {
	eb.cache.entities = eb.cache.entities[:0]
	effects := world.Effects()

	for _, tag := range world.Store().Types() {
		for id, e := range world.Store().Active(tag) {
			eb.cache.entities = append(eb.cache.entities, EntityInfo{
				ID:       id,
				Label:    id.String(),
				Type:     e.Type,
				X:        e.Position.X,
				Y:        e.Position.Y,
				Radius:   e.Radius,
				Attrs:    e.Attrs.Len(),
				Effects:  len(effects.EntityEffects(id)),
				Velocity: e.Velocity.Len(),
			})
		}
	}

	eb.sortEntities()
}

func (eb *EntityBrowser) sortEntities() {
	sort.SliceStable(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		var less bool

		switch eb.cache.sortColumn {
		case 1:
			less = a.Type < b.Type
		case 2:
			less = a.X < b.X || (a.X == b.X && a.Y < b.Y)
		case 3:
			less = a.Velocity < b.Velocity
		case 4:
			less = a.Attrs < b.Attrs
		case 5:
			less = a.Effects < b.Effects
		default:
			less = a.ID < b.ID
		}

		if !eb.cache.sortAscending {
			return !less
		}
		return less
	})
}

func (eb *EntityBrowser) filtered() []EntityInfo {
	if eb.filterText == "" && eb.filterType == "" {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.cache.entities {
		if eb.filterType != "" && entity.Type != eb.filterType {
			continue
		}
		if eb.filterText != "" &&
			!strings.Contains(entity.Label, filterLower) &&
			!strings.Contains(strings.ToLower(entity.Type), filterLower) {
			continue
		}
		filtered = append(filtered, entity)
	}

	return filtered
}

// FilterType restricts the browser to one entity type; "" shows all.
func (eb *EntityBrowser) FilterType(tag string) {
	eb.filterType = tag
	eb.currentPage = 0
}

func (eb *EntityBrowser) Select(id ecs.EntityId) {
	eb.selectedEntityId = id
}

func (eb *EntityBrowser) Selected() ecs.EntityId {
	return eb.selectedEntityId
}
