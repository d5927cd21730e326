package world

type Vec2i struct {
	X int
	Y int
}

func (v Vec2i) Add(dx, dy int) Vec2i { return Vec2i{X: v.X + dx, Y: v.Y + dy} }
