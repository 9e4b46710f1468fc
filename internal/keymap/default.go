package keymap

import "github.com/retrolink/x1bridge/internal/hid"

const (
	modShift = uint8(hid.ModShift)
	modCtrl  = uint8(hid.ModCtrl)
	modExt   = uint8(hid.ModExtended)
)

// Default returns the compiled-in table. It is the fallback whenever the
// keymap file is missing or unreadable, and the first table persisted to a
// fresh filesystem. Row order matters: data rows first, layout-specific rows
// before their wildcard siblings, tracked-modifier fallback rows last.
func Default() *Table {
	entries := make([]Entry, 0, 128)

	letter := func(scan, lower, upper uint8) {
		entries = append(entries,
			Entry{SrcKey: scan, SrcMod: modShift, Layout: LayoutAny, Machine: MachineAny, OutKey: upper, Flags: FlagCapsInvert},
			Entry{SrcKey: scan, Layout: LayoutAny, Machine: MachineAny, OutKey: lower, Flags: FlagCapsInvert},
		)
	}
	plain := func(scan, out uint8) {
		entries = append(entries, Entry{SrcKey: scan, Layout: LayoutAny, Machine: MachineAny, OutKey: out})
	}
	shifted := func(scan, out uint8, layout Layout) {
		entries = append(entries, Entry{SrcKey: scan, SrcMod: modShift, Layout: layout, Machine: MachineAny, OutKey: out})
	}

	letter(ScanA, 'a', 'A')
	letter(ScanB, 'b', 'B')
	letter(ScanC, 'c', 'C')
	letter(ScanD, 'd', 'D')
	letter(ScanE, 'e', 'E')
	letter(ScanF, 'f', 'F')
	letter(ScanG, 'g', 'G')
	letter(ScanH, 'h', 'H')
	letter(ScanI, 'i', 'I')
	letter(ScanJ, 'j', 'J')
	letter(ScanK, 'k', 'K')
	letter(ScanL, 'l', 'L')
	letter(ScanM, 'm', 'M')
	letter(ScanN, 'n', 'N')
	letter(ScanO, 'o', 'O')
	letter(ScanP, 'p', 'P')
	letter(ScanQ, 'q', 'Q')
	letter(ScanR, 'r', 'R')
	letter(ScanS, 's', 'S')
	letter(ScanT, 't', 'T')
	letter(ScanU, 'u', 'U')
	letter(ScanV, 'v', 'V')
	letter(ScanW, 'w', 'W')
	letter(ScanX, 'x', 'X')
	letter(ScanY, 'y', 'Y')
	letter(ScanZ, 'z', 'Z')

	// Shifted digit rows diverge between layouts; the plain rows are shared.
	shifted(Scan1, '!', LayoutAny)
	shifted(Scan2, '"', LayoutJIS)
	shifted(Scan2, '@', LayoutUS|LayoutAX)
	shifted(Scan3, '#', LayoutAny)
	shifted(Scan4, '$', LayoutAny)
	shifted(Scan5, '%', LayoutAny)
	shifted(Scan6, '&', LayoutJIS)
	shifted(Scan6, '^', LayoutUS|LayoutAX)
	shifted(Scan7, '\'', LayoutJIS)
	shifted(Scan7, '&', LayoutUS|LayoutAX)
	shifted(Scan8, '(', LayoutJIS)
	shifted(Scan8, '*', LayoutUS|LayoutAX)
	shifted(Scan9, ')', LayoutJIS)
	shifted(Scan9, '(', LayoutUS|LayoutAX)
	shifted(Scan0, ')', LayoutUS|LayoutAX)
	plain(Scan1, '1')
	plain(Scan2, '2')
	plain(Scan3, '3')
	plain(Scan4, '4')
	plain(Scan5, '5')
	plain(Scan6, '6')
	plain(Scan7, '7')
	plain(Scan8, '8')
	plain(Scan9, '9')
	plain(Scan0, '0')

	shifted(ScanMinus, '=', LayoutJIS)
	shifted(ScanMinus, '_', LayoutUS|LayoutAX)
	shifted(ScanEquals, '+', LayoutAny)
	shifted(ScanSemicolon, ':', LayoutUS|LayoutAX)
	shifted(ScanSemicolon, '+', LayoutJIS)
	shifted(ScanQuote, '"', LayoutUS|LayoutAX)
	shifted(ScanComma, '<', LayoutAny)
	shifted(ScanPeriod, '>', LayoutAny)
	shifted(ScanSlash, '?', LayoutAny)
	plain(ScanMinus, '-')
	plain(ScanEquals, '=')
	plain(ScanLBracket, '[')
	plain(ScanRBracket, ']')
	plain(ScanSemicolon, ';')
	plain(ScanQuote, '\'')
	plain(ScanBackquote, '`')
	plain(ScanBackslash, '\\')
	plain(ScanComma, ',')
	plain(ScanPeriod, '.')
	plain(ScanSlash, '/')

	plain(ScanEnter, 0x0D)
	plain(ScanEscape, 0x1B)
	plain(ScanBackspace, 0x08)
	plain(ScanTab, 0x09)
	plain(ScanSpace, 0x20)

	// Function keys use the X1 0x71..0x75 range.
	plain(ScanF1, 0x71)
	plain(ScanF2, 0x72)
	plain(ScanF3, 0x73)
	plain(ScanF4, 0x74)
	plain(ScanF5, 0x75)

	// Cursor keys arrive with the extended prefix; the bare keypad codes map
	// to digits below.
	cursor := func(scan, out uint8) {
		entries = append(entries, Entry{SrcKey: scan, SrcMod: modExt, Layout: LayoutAny, Machine: MachineAny, OutKey: out})
	}
	cursor(ScanUp, 0x1E)
	cursor(ScanDown, 0x1F)
	cursor(ScanLeft, 0x1D)
	cursor(ScanRight, 0x1C)

	// Direct-mode bitmap rows for game input. Each row owns one bit of the
	// 24-bit frame; press ORs it in, release clears it.
	direct := func(scan uint8, srcMod uint8, bit uint8) {
		entries = append(entries, Entry{SrcKey: scan, SrcMod: srcMod, Layout: LayoutAny, Machine: MachineX1Turbo | MachineX1TurboZ, Mode: ModeB, OutKey: bit})
	}
	direct(ScanUp, modExt, 0x01)
	direct(ScanDown, modExt, 0x02)
	direct(ScanLeft, modExt, 0x04)
	direct(ScanRight, modExt, 0x08)
	direct(ScanSpace, 0, 0x10)
	direct(ScanZ, 0, 0x20)
	direct(ScanX, 0, 0x40)

	// Numeric pad rows carry the TEN flag in the frame's control byte so the
	// host can tell pad digits from row digits.
	tenkey := func(scan, out uint8) {
		entries = append(entries, Entry{SrcKey: scan, Layout: LayoutAny, Machine: MachineAny, OutKey: out, OutCtrl: CtrlTen, Flags: FlagTenKey})
	}
	tenkey(ScanKP0, '0')
	tenkey(ScanKP1, '1')
	tenkey(ScanKP2, '2')
	tenkey(ScanKP3, '3')
	tenkey(ScanKP4, '4')
	tenkey(ScanKP5, '5')
	tenkey(ScanKP6, '6')
	tenkey(ScanKP7, '7')
	tenkey(ScanKP8, '8')
	tenkey(ScanKP9, '9')

	// Tracked-modifier fallback rows. These must stay last so that any more
	// specific data row above wins first.
	modifier := func(scan uint8, srcMod uint8, ctrlBit uint8) {
		entries = append(entries, Entry{SrcKey: scan, SrcMod: srcMod, Layout: LayoutAny, Machine: MachineAny, OutCtrl: ctrlBit, Flags: FlagModifier})
	}
	modifier(ScanLShift, modShift, CtrlShift)
	modifier(ScanRShift, modShift, CtrlShift)
	modifier(ScanLCtrl, modCtrl, CtrlCtrl)
	modifier(ScanKana, 0, CtrlKana)
	modifier(ScanLAlt, uint8(hid.ModAlt), CtrlGraph)

	return New(entries)
}
