package keymap

// The schema describes the keymap record layout to external editors (the
// configuration portal) so they can render and edit rules without knowing the
// wire format. Select lists are name→bitmask pairs.

type SchemaColumn struct {
	Name   string         `json:"name"`
	Type   string         `json:"type"`
	Select []SchemaOption `json:"select,omitempty"`
}

type SchemaOption struct {
	Name  string `json:"name"`
	Value uint8  `json:"value"`
}

func Schema() []SchemaColumn {
	return []SchemaColumn{
		{Name: "srcKey", Type: "scancode"},
		{Name: "srcMod", Type: "bitmask", Select: []SchemaOption{
			{Name: "shift", Value: modShift},
			{Name: "ctrl", Value: modCtrl},
			{Name: "alt", Value: 0x08},
			{Name: "altgr", Value: 0x10},
			{Name: "gui", Value: 0x20},
			{Name: "fn", Value: 0x40},
			{Name: "extended", Value: modExt},
		}},
		{Name: "layout", Type: "bitmask", Select: []SchemaOption{
			{Name: "JIS", Value: uint8(LayoutJIS)},
			{Name: "US", Value: uint8(LayoutUS)},
			{Name: "AX", Value: uint8(LayoutAX)},
			{Name: "any", Value: uint8(LayoutAny)},
		}},
		{Name: "machine", Type: "bitmask", Select: []SchemaOption{
			{Name: "X1", Value: uint8(MachineX1)},
			{Name: "X1turbo", Value: uint8(MachineX1Turbo)},
			{Name: "X1turboZ", Value: uint8(MachineX1TurboZ)},
			{Name: "any", Value: uint8(MachineAny)},
		}},
		{Name: "mode", Type: "select", Select: []SchemaOption{
			{Name: "A", Value: uint8(ModeA)},
			{Name: "B", Value: uint8(ModeB)},
		}},
		{Name: "outKey", Type: "byte"},
		{Name: "outCtrl", Type: "bitmask", Select: []SchemaOption{
			{Name: "TEN", Value: CtrlTen},
			{Name: "CTRL", Value: CtrlCtrl},
			{Name: "KANA", Value: CtrlKana},
			{Name: "GRAPH", Value: CtrlGraph},
			{Name: "CAPS", Value: CtrlCaps},
			{Name: "SHIFT", Value: CtrlShift},
		}},
		{Name: "flags", Type: "bitmask", Select: []SchemaOption{
			{Name: "capsInvert", Value: FlagCapsInvert},
			{Name: "modifier", Value: FlagModifier},
			{Name: "tenkey", Value: FlagTenKey},
		}},
	}
}
