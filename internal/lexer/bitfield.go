package lexer

// BitField is a named slice of a persisted line-state integer. Language
// packages declare their layout as BitField values and read and write line
// state only through them.
type BitField struct {
	Shift uint
	Width uint
}

// Max is the largest value the field can hold.
func (f BitField) Max() int {
	return 1<<f.Width - 1
}

// Mask is the field's bits in position.
func (f BitField) Mask() int {
	return f.Max() << f.Shift
}

// Get extracts the field from state.
func (f BitField) Get(state int) int {
	return (state >> f.Shift) & f.Max()
}

// Put returns state with the field replaced by value clamped to [0, Max].
func (f BitField) Put(state, value int) int {
	value = Clamp(value, 0, f.Max())
	return state&^f.Mask() | value<<f.Shift
}

// Flag reads a one-bit field.
func (f BitField) Flag(state int) bool {
	return f.Get(state) != 0
}

// PutFlag writes a one-bit field.
func (f BitField) PutFlag(state int, on bool) int {
	if on {
		return f.Put(state, 1)
	}
	return f.Put(state, 0)
}
