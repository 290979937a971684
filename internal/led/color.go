package led

// Channel offsets inside a packed 0x00RRGGBB colour.
const (
	RedOffset   uint8 = 0x10
	GreenOffset uint8 = 0x08
	BlueOffset  uint8 = 0x0
)

// RGB is one pixel in strip order before NRZ encoding.
type RGB struct {
	R, G, B uint8
}

var Off = RGB{}

func getcolor(c uint32, off uint8) uint8 {
	var mask uint32 = 0xFF << off
	return uint8((c & mask) >> off)
}

// Unpack reads a 0x00RRGGBB value.
func Unpack(c uint32) RGB {
	return RGB{
		R: getcolor(c, RedOffset),
		G: getcolor(c, GreenOffset),
		B: getcolor(c, BlueOffset),
	}
}

func (c RGB) Pack() uint32 {
	return uint32(c.R)<<RedOffset | uint32(c.G)<<GreenOffset | uint32(c.B)<<BlueOffset
}

func (c RGB) IsOff() bool { return c == Off }
