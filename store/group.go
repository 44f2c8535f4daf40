package store

import "fmt"

// GroupRecord is a named transform group inside a scene container.
// Groups form a forest: each group optionally names a parent group and
// carries an optional static transform next to any animation tracks
// attached to it.
type GroupRecord struct {
	Name   string
	Parent string

	// Packed translation, rotation quaternion (x, y, z, w), scale.
	Transform    [10]float32
	HasTransform bool
}

// Fetch or lazily create a group. Group references made by objects,
// parent links and animation tracks all auto-create their target.
func (st *SceneStore) ensureGroup(name string) *GroupRecord {
	if group, exists := st.groups[name]; exists {
		return group
	}
	group := &GroupRecord{Name: name}
	st.groups[name] = group
	st.groupOrder = append(st.groupOrder, name)
	return group
}

// Look up a group by name.
func (st *SceneStore) Group(name string) (*GroupRecord, bool) {
	group, exists := st.groups[name]
	return group, exists
}

// The groups of the container in creation order.
func (st *SceneStore) Groups() []*GroupRecord {
	out := make([]*GroupRecord, 0, len(st.groupOrder))
	for _, name := range st.groupOrder {
		out = append(out, st.groups[name])
	}
	return out
}

// Link child under parent in the group forest.
func (st *SceneStore) AssignParentGroup(child, parent string) error {
	if child == parent {
		return fmt.Errorf("store: group %q cannot parent itself", child)
	}
	st.ensureGroup(parent)
	st.ensureGroup(child).Parent = parent
	return nil
}

// Attach a static packed transform to a group.
func (st *SceneStore) SetGroupTransform(name string, transform [10]float32) {
	group := st.ensureGroup(name)
	group.Transform = transform
	group.HasTransform = true
}

// Verify that the group forest is acyclic. Containers refuse to export
// groups whose parent chain loops.
func (st *SceneStore) validateGroups() error {
	for _, name := range st.groupOrder {
		seen := map[string]bool{name: true}
		for cur := st.groups[name].Parent; cur != ""; {
			if seen[cur] {
				return fmt.Errorf("store: cycle in group parent chain at %q", name)
			}
			seen[cur] = true
			next, exists := st.groups[cur]
			if !exists {
				return fmt.Errorf("%w %q referenced by %q", ErrUnknownGroup, cur, name)
			}
			cur = next.Parent
		}
	}
	return nil
}
