package component

import "github.com/milk9111/engine/ecs"

var (
	PlayerTag = ecs.NewTag("player")
	CameraTag = ecs.NewTag("camera")
	StaticTag = ecs.NewTag("static")
)

// Tags maps the built-in tag names for content lookups.
func Tags() map[string]ecs.Tag {
	return map[string]ecs.Tag{
		PlayerTag.Name(): PlayerTag,
		CameraTag.Name(): CameraTag,
		StaticTag.Name(): StaticTag,
	}
}
