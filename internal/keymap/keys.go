package keymap

// PS/2 scan code set 2 make codes, the key identifiers carried by hid.ScanCode.
// Bluetooth HID backends translate into this space before publishing.
const (
	ScanA         uint8 = 0x1C
	ScanB         uint8 = 0x32
	ScanC         uint8 = 0x21
	ScanD         uint8 = 0x23
	ScanE         uint8 = 0x24
	ScanF         uint8 = 0x2B
	ScanG         uint8 = 0x34
	ScanH         uint8 = 0x33
	ScanI         uint8 = 0x43
	ScanJ         uint8 = 0x3B
	ScanK         uint8 = 0x42
	ScanL         uint8 = 0x4B
	ScanM         uint8 = 0x3A
	ScanN         uint8 = 0x31
	ScanO         uint8 = 0x44
	ScanP         uint8 = 0x4D
	ScanQ         uint8 = 0x15
	ScanR         uint8 = 0x2D
	ScanS         uint8 = 0x1B
	ScanT         uint8 = 0x2C
	ScanU         uint8 = 0x3C
	ScanV         uint8 = 0x2A
	ScanW         uint8 = 0x1D
	ScanX         uint8 = 0x22
	ScanY         uint8 = 0x35
	ScanZ         uint8 = 0x1A
	Scan1         uint8 = 0x16
	Scan2         uint8 = 0x1E
	Scan3         uint8 = 0x26
	Scan4         uint8 = 0x25
	Scan5         uint8 = 0x2E
	Scan6         uint8 = 0x36
	Scan7         uint8 = 0x3D
	Scan8         uint8 = 0x3E
	Scan9         uint8 = 0x46
	Scan0         uint8 = 0x45
	ScanEnter     uint8 = 0x5A
	ScanEscape    uint8 = 0x76
	ScanSpace     uint8 = 0x29
	ScanBackspace uint8 = 0x66
	ScanTab       uint8 = 0x0D
	ScanMinus     uint8 = 0x4E
	ScanEquals    uint8 = 0x55
	ScanLBracket  uint8 = 0x54
	ScanRBracket  uint8 = 0x5B
	ScanSemicolon uint8 = 0x4C
	ScanQuote     uint8 = 0x52
	ScanBackquote uint8 = 0x0E
	ScanBackslash uint8 = 0x5D
	ScanComma     uint8 = 0x41
	ScanPeriod    uint8 = 0x49
	ScanSlash     uint8 = 0x4A
	ScanCapsLock  uint8 = 0x58
	ScanLShift    uint8 = 0x12
	ScanRShift    uint8 = 0x59
	ScanLCtrl     uint8 = 0x14
	ScanLAlt      uint8 = 0x11
	ScanKana      uint8 = 0x13
	ScanScrollLck uint8 = 0x7E
	ScanF1        uint8 = 0x05
	ScanF2        uint8 = 0x06
	ScanF3        uint8 = 0x04
	ScanF4        uint8 = 0x0C
	ScanF5        uint8 = 0x03
	ScanUp        uint8 = 0x75
	ScanDown      uint8 = 0x72
	ScanLeft      uint8 = 0x6B
	ScanRight     uint8 = 0x74
	ScanKP0       uint8 = 0x70
	ScanKP1       uint8 = 0x69
	ScanKP2       uint8 = 0x72
	ScanKP3       uint8 = 0x7A
	ScanKP4       uint8 = 0x6B
	ScanKP5       uint8 = 0x73
	ScanKP6       uint8 = 0x74
	ScanKP7       uint8 = 0x6C
	ScanKP8       uint8 = 0x75
	ScanKP9       uint8 = 0x7D
)
