package gdscript

// DefaultKeywords are the compiled-in word lists, one per slot.
var DefaultKeywords = []string{
	"and as assert await break breakpoint class class_name const continue elif else enum " +
		"extends false for func if in is match namespace not null or pass preload return self " +
		"signal static super trait true var void when while yield INF NAN PI TAU",
	"Array bool Callable Color Dictionary float int Node Node2D Node3D Object PackedScene " +
		"Resource String StringName Vector2 Vector2i Vector3 Vector3i print push_error push_warning",
}
