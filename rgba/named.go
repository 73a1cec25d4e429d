package rgba

var (
	Black       = Opaque(0, 0, 0)
	White       = Opaque(255, 255, 255)
	Red         = Opaque(255, 0, 0)
	Green       = Opaque(0, 255, 0)
	Blue        = Opaque(0, 0, 255)
	Yellow      = Opaque(255, 255, 0)
	Magenta     = Opaque(255, 0, 255)
	Cyan        = Opaque(0, 255, 255)
	Transparent = New(0, 0, 0, 0)
	Gray        = Opaque(128, 128, 128)
	DarkGray    = Opaque(64, 64, 64)
)
