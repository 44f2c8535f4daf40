package render

import "fmt"

// SceneKey uniquely identifies a synced object inside a render context.
// Host entities map to their name; instanced copies derive their key from
// the instanced entity name and the instance index.
type SceneKey string

// The scene key of a host entity.
func ObjectKey(name string) SceneKey {
	return SceneKey(name)
}

// The scene key of instance copy index of a host entity.
func InstanceKey(name string, index int) SceneKey {
	return SceneKey(fmt.Sprintf("%s.%d", name, index))
}
