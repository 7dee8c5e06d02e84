// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

// X11 keysym values for non-printable keys, per X11/keysymdef.h. Printable
// ASCII and Latin-1 (0x20..0x7E, 0xA0..0xFF) use their own code point as the
// keysym; the printable constants at the end of this block name such code
// points only because keysymTable maps keypad keys to them.
const (
	XKVoidSymbol uint32 = 0xFFFFFF

	XKBackSpace uint32 = 0xFF08
	XKTab       uint32 = 0xFF09
	XKClear     uint32 = 0xFF0B
	XKReturn    uint32 = 0xFF0D
	XKPause     uint32 = 0xFF13
	XKScrollLock uint32 = 0xFF14
	XKSysReq    uint32 = 0xFF15
	XKEscape    uint32 = 0xFF1B
	XKDelete    uint32 = 0xFFFF

	XKHome     uint32 = 0xFF50
	XKLeft     uint32 = 0xFF51
	XKUp       uint32 = 0xFF52
	XKRight    uint32 = 0xFF53
	XKDown     uint32 = 0xFF54
	XKPageUp   uint32 = 0xFF55
	XKPrior    uint32 = 0xFF55
	XKPageDown uint32 = 0xFF56
	XKNext     uint32 = 0xFF56
	XKEnd      uint32 = 0xFF57
	XKSelect   uint32 = 0xFF60
	XKPrint    uint32 = 0xFF61
	XKExecute  uint32 = 0xFF62
	XKInsert   uint32 = 0xFF63
	XKUndo     uint32 = 0xFF65
	XKRedo     uint32 = 0xFF66
	XKMenu     uint32 = 0xFF67
	XKFind     uint32 = 0xFF68
	XKCancel   uint32 = 0xFF69
	XKHelp     uint32 = 0xFF6A
	XKNumLock  uint32 = 0xFF7F

	XKKPSpace    uint32 = 0xFF80
	XKKPTab      uint32 = 0xFF89
	XKKPEnter    uint32 = 0xFF8D
	XKKPEqual    uint32 = 0xFFBD
	XKKPMultiply uint32 = 0xFFAA
	XKKPAdd      uint32 = 0xFFAB
	XKKPSeparator uint32 = 0xFFAC
	XKKPSubtract uint32 = 0xFFAD
	XKKPDecimal  uint32 = 0xFFAE
	XKKPDivide   uint32 = 0xFFAF
	XKKP0        uint32 = 0xFFB0
	XKKP1        uint32 = 0xFFB1
	XKKP2        uint32 = 0xFFB2
	XKKP3        uint32 = 0xFFB3
	XKKP4        uint32 = 0xFFB4
	XKKP5        uint32 = 0xFFB5
	XKKP6        uint32 = 0xFFB6
	XKKP7        uint32 = 0xFFB7
	XKKP8        uint32 = 0xFFB8
	XKKP9        uint32 = 0xFFB9

	XKF1  uint32 = 0xFFBE
	XKF2  uint32 = 0xFFBF
	XKF3  uint32 = 0xFFC0
	XKF4  uint32 = 0xFFC1
	XKF5  uint32 = 0xFFC2
	XKF6  uint32 = 0xFFC3
	XKF7  uint32 = 0xFFC4
	XKF8  uint32 = 0xFFC5
	XKF9  uint32 = 0xFFC6
	XKF10 uint32 = 0xFFC7
	XKF11 uint32 = 0xFFC8
	XKF12 uint32 = 0xFFC9
	XKF13 uint32 = 0xFFCA
	XKF14 uint32 = 0xFFCB
	XKF15 uint32 = 0xFFCC
	XKF16 uint32 = 0xFFCD
	XKF17 uint32 = 0xFFCE
	XKF18 uint32 = 0xFFCF
	XKF19 uint32 = 0xFFD0
	XKF20 uint32 = 0xFFD1
	XKF21 uint32 = 0xFFD2
	XKF22 uint32 = 0xFFD3
	XKF23 uint32 = 0xFFD4
	XKF24 uint32 = 0xFFD5

	XKShiftL   uint32 = 0xFFE1
	XKShiftR   uint32 = 0xFFE2
	XKControlL uint32 = 0xFFE3
	XKControlR uint32 = 0xFFE4
	XKCapsLock uint32 = 0xFFE5
	XKMetaL    uint32 = 0xFFE7
	XKMetaR    uint32 = 0xFFE8
	XKAltL     uint32 = 0xFFE9
	XKAltR     uint32 = 0xFFEA
	XKSuperL   uint32 = 0xFFEB
	XKSuperR   uint32 = 0xFFEC

	XKISOLevel3Shift uint32 = 0xFE03

	XK3270CursorSelect uint32 = 0xFD1C
	XK3270ExSelect     uint32 = 0xFD1D
	XK3270EraseInput   uint32 = 0xFD1F
	XK3270Copy         uint32 = 0xFD15

	XKPeriod        uint32 = 0x002E
	XKPercent       uint32 = 0x0025
	XKLess          uint32 = 0x003C
	XKGreater       uint32 = 0x003E
	XKAmpersand     uint32 = 0x0026
	XKBar           uint32 = 0x007C
	XKColon         uint32 = 0x003A
	XKNumbersign    uint32 = 0x0023
	XKAt            uint32 = 0x0040
	XKExclam        uint32 = 0x0021
	XKPlusminus     uint32 = 0x00B1
	XKParenleft     uint32 = 0x0028
	XKParenright    uint32 = 0x0029
	XKBraceleft     uint32 = 0x007B
	XKBraceright    uint32 = 0x007D
	XKAsciicircum   uint32 = 0x005E
	XKA             uint32 = 0x0061
	XKB             uint32 = 0x0062
	XKC             uint32 = 0x0063
	XKD             uint32 = 0x0064
	XKE             uint32 = 0x0065
	XKF             uint32 = 0x0066
)

// HostKeycode is a host-toolkit keycode: printable codes equal their Unicode
// code point (mirroring X11/Latin-1); non-printable keys backed by an ASCII
// control code (Return, Escape, Backspace, Tab, Delete) use that code, and
// the rest are drawn from a host-specific range above 0x40000000 (the scheme
// SDL2 uses for SDLK_* constants not backed by a Unicode code point).
type HostKeycode uint32

// Non-printable host keycodes that the translator recognizes. Values mirror
// SDL2's SDLK_* enumeration so a host event loop built on SDL-like libraries
// can pass its keycodes through unmodified.
const (
	HostKeyUnknown HostKeycode = 0

	HostKeyReturn    HostKeycode = '\r'
	HostKeyEscape    HostKeycode = 27
	HostKeyBackspace HostKeycode = 8
	HostKeyTab       HostKeycode = 9

	HostKeyCapsLock HostKeycode = 0x40000039

	HostKeyF1  HostKeycode = 0x4000003A
	HostKeyF2  HostKeycode = 0x4000003B
	HostKeyF3  HostKeycode = 0x4000003C
	HostKeyF4  HostKeycode = 0x4000003D
	HostKeyF5  HostKeycode = 0x4000003E
	HostKeyF6  HostKeycode = 0x4000003F
	HostKeyF7  HostKeycode = 0x40000040
	HostKeyF8  HostKeycode = 0x40000041
	HostKeyF9  HostKeycode = 0x40000042
	HostKeyF10 HostKeycode = 0x40000043
	HostKeyF11 HostKeycode = 0x40000044
	HostKeyF12 HostKeycode = 0x40000045

	HostKeyPrintScreen HostKeycode = 0x40000046
	HostKeyScrollLock  HostKeycode = 0x40000047
	HostKeyPause       HostKeycode = 0x40000048
	HostKeyInsert      HostKeycode = 0x40000049
	HostKeyHome        HostKeycode = 0x4000004A
	HostKeyPageUp      HostKeycode = 0x4000004B
	HostKeyDelete      HostKeycode = 127
	HostKeyEnd         HostKeycode = 0x4000004D
	HostKeyPageDown    HostKeycode = 0x4000004E
	HostKeyRight       HostKeycode = 0x4000004F
	HostKeyLeft        HostKeycode = 0x40000050
	HostKeyDown        HostKeycode = 0x40000051
	HostKeyUp          HostKeycode = 0x40000052

	HostKeyNumLockClear HostKeycode = 0x40000053
	HostKeyKPDivide     HostKeycode = 0x40000054
	HostKeyKPMultiply   HostKeycode = 0x40000055
	HostKeyKPMinus      HostKeycode = 0x40000056
	HostKeyKPPlus       HostKeycode = 0x40000057
	HostKeyKPEnter      HostKeycode = 0x40000058
	HostKeyKP1          HostKeycode = 0x40000059
	HostKeyKP2          HostKeycode = 0x4000005A
	HostKeyKP3          HostKeycode = 0x4000005B
	HostKeyKP4          HostKeycode = 0x4000005C
	HostKeyKP5          HostKeycode = 0x4000005D
	HostKeyKP6          HostKeycode = 0x4000005E
	HostKeyKP7          HostKeycode = 0x4000005F
	HostKeyKP8          HostKeycode = 0x40000060
	HostKeyKP9          HostKeycode = 0x40000061
	HostKeyKP0          HostKeycode = 0x40000062
	HostKeyKPComma      HostKeycode = 0x40000085
	HostKeyKPPeriod     HostKeycode = 0x40000063

	HostKeyApplication HostKeycode = 0x40000065
	HostKeyKPEquals    HostKeycode = 0x40000067
	HostKeyF13         HostKeycode = 0x40000068
	HostKeyF14         HostKeycode = 0x40000069
	HostKeyF15         HostKeycode = 0x4000006A
	HostKeyF16         HostKeycode = 0x4000006B
	HostKeyF17         HostKeycode = 0x4000006C
	HostKeyF18         HostKeycode = 0x4000006D
	HostKeyF19         HostKeycode = 0x4000006E
	HostKeyF20         HostKeycode = 0x4000006F
	HostKeyF21         HostKeycode = 0x40000070
	HostKeyF22         HostKeycode = 0x40000071
	HostKeyF23         HostKeycode = 0x40000072
	HostKeyF24         HostKeycode = 0x40000073
	HostKeyExecute     HostKeycode = 0x40000074
	HostKeyHelp        HostKeycode = 0x40000075
	HostKeyMenu        HostKeycode = 0x40000076
	HostKeySelect      HostKeycode = 0x40000077
	HostKeyStop        HostKeycode = 0x40000078
	HostKeyAgain       HostKeycode = 0x40000079
	HostKeyUndo        HostKeycode = 0x4000007A
	HostKeyCopy        HostKeycode = 0x4000007C
	HostKeyFind        HostKeycode = 0x4000007E

	HostKeyAltErase HostKeycode = 0x40000099
	HostKeySysReq   HostKeycode = 0x4000009A
	HostKeyCancel   HostKeycode = 0x4000009B
	HostKeyClear    HostKeycode = 0x4000009C
	HostKeyPrior    HostKeycode = 0x4000009D
	HostKeyCrSel    HostKeycode = 0x400000A3
	HostKeyExSel    HostKeycode = 0x400000A4

	HostKeyDecimalSeparator  HostKeycode = 0x400000B3
	HostKeyCurrencyUnit      HostKeycode = 0x400000B4
	HostKeyCurrencySubunit   HostKeycode = 0x400000B5
	HostKeyKPLeftParen       HostKeycode = 0x400000B6
	HostKeyKPRightParen      HostKeycode = 0x400000B7
	HostKeyKPLeftBrace       HostKeycode = 0x400000B8
	HostKeyKPRightBrace      HostKeycode = 0x400000B9
	HostKeyKPTab             HostKeycode = 0x400000BA
	HostKeyKPBackspace       HostKeycode = 0x400000BB
	HostKeyKPA               HostKeycode = 0x400000BC
	HostKeyKPB               HostKeycode = 0x400000BD
	HostKeyKPC               HostKeycode = 0x400000BE
	HostKeyKPD               HostKeycode = 0x400000BF
	HostKeyKPE               HostKeycode = 0x400000C0
	HostKeyKPF               HostKeycode = 0x400000C1
	HostKeyKPPower           HostKeycode = 0x400000C2
	HostKeyKPPercent         HostKeycode = 0x400000C3
	HostKeyKPLess            HostKeycode = 0x400000C4
	HostKeyKPGreater         HostKeycode = 0x400000C5
	HostKeyKPAmpersand       HostKeycode = 0x400000C6
	HostKeyKPVerticalBar     HostKeycode = 0x400000C8
	HostKeyKPColon           HostKeycode = 0x400000CA
	HostKeyKPHash            HostKeycode = 0x400000CB
	HostKeyKPSpace           HostKeycode = 0x400000CC
	HostKeyKPAt              HostKeycode = 0x400000CD
	HostKeyKPExclam          HostKeycode = 0x400000CE
	HostKeyKPPlusMinus       HostKeycode = 0x400000D2
	HostKeyKPClear           HostKeycode = 0x400000D3
	HostKeyKPClearEntry      HostKeycode = 0x400000D4
	HostKeyKPDecimal         HostKeycode = 0x400000DC

	HostKeyLCtrl  HostKeycode = 0x400000E0
	HostKeyLShift HostKeycode = 0x400000E1
	HostKeyLAlt   HostKeycode = 0x400000E2
	HostKeyLGui   HostKeycode = 0x400000E3
	HostKeyRCtrl  HostKeycode = 0x400000E4
	HostKeyRShift HostKeycode = 0x400000E5
	HostKeyRAlt   HostKeycode = 0x400000E6
	HostKeyRGui   HostKeycode = 0x400000E7

	HostKeyMode HostKeycode = 0x40000101
)

// keysymTable maps non-printable HostKeycode values to X11 keysyms, grounded
// on VNC_TranslateKey's switch statement in the original SDL implementation.
var keysymTable = map[HostKeycode]uint32{
	HostKeyUnknown: XKVoidSymbol,

	HostKeyReturn:    XKReturn,
	HostKeyEscape:    XKEscape,
	HostKeyBackspace: XKBackSpace,
	HostKeyTab:       XKTab,
	HostKeyCapsLock:  XKCapsLock,

	HostKeyF1: XKF1, HostKeyF2: XKF2, HostKeyF3: XKF3, HostKeyF4: XKF4,
	HostKeyF5: XKF5, HostKeyF6: XKF6, HostKeyF7: XKF7, HostKeyF8: XKF8,
	HostKeyF9: XKF9, HostKeyF10: XKF10, HostKeyF11: XKF11, HostKeyF12: XKF12,
	HostKeyF13: XKF13, HostKeyF14: XKF14, HostKeyF15: XKF15, HostKeyF16: XKF16,
	HostKeyF17: XKF17, HostKeyF18: XKF18, HostKeyF19: XKF19, HostKeyF20: XKF20,
	HostKeyF21: XKF21, HostKeyF22: XKF22, HostKeyF23: XKF23, HostKeyF24: XKF24,

	HostKeyPrintScreen: XKPrint,
	HostKeyScrollLock:  XKScrollLock,
	HostKeyPause:       XKPause,
	HostKeyInsert:      XKInsert,
	HostKeyHome:        XKHome,
	HostKeyPageUp:      XKPageUp,
	HostKeyDelete:      XKDelete,
	HostKeyEnd:         XKEnd,
	HostKeyPageDown:    XKPageDown,
	HostKeyRight:       XKRight,
	HostKeyLeft:        XKLeft,
	HostKeyDown:        XKDown,
	HostKeyUp:          XKUp,

	HostKeyNumLockClear: XKNumLock,
	HostKeyKPDivide:     XKKPDivide,
	HostKeyKPMultiply:   XKKPMultiply,
	HostKeyKPMinus:      XKKPSubtract,
	HostKeyKPPlus:       XKKPAdd,
	HostKeyKPEnter:      XKKPEnter,
	HostKeyKP1:          XKKP1, HostKeyKP2: XKKP2, HostKeyKP3: XKKP3,
	HostKeyKP4: XKKP4, HostKeyKP5: XKKP5, HostKeyKP6: XKKP6,
	HostKeyKP7: XKKP7, HostKeyKP8: XKKP8, HostKeyKP9: XKKP9, HostKeyKP0: XKKP0,
	HostKeyKPComma:  XKKPSeparator,
	HostKeyKPPeriod: XKPeriod,

	HostKeyApplication: XKMenu,
	HostKeyKPEquals:    XKKPEqual,
	HostKeyExecute:     XKExecute,
	HostKeyHelp:        XKHelp,
	HostKeyMenu:        XKMenu,
	HostKeySelect:      XKSelect,
	HostKeyStop:        XKCancel,
	HostKeyAgain:       XKRedo,
	HostKeyUndo:        XKUndo,
	HostKeyCopy:        XK3270Copy,
	HostKeyFind:        XKFind,

	HostKeyAltErase: XK3270EraseInput,
	HostKeySysReq:   XKSysReq,
	HostKeyCancel:   XKCancel,
	HostKeyClear:    XKClear,
	HostKeyPrior:    XKPrior,
	HostKeyCrSel:    XK3270CursorSelect,
	HostKeyExSel:    XK3270ExSelect,

	HostKeyDecimalSeparator: XKPeriod,
	HostKeyKPLeftParen:      XKParenleft,
	HostKeyKPRightParen:     XKParenright,
	HostKeyKPLeftBrace:      XKBraceleft,
	HostKeyKPRightBrace:     XKBraceright,
	HostKeyKPTab:            XKKPTab,
	HostKeyKPBackspace:      XKBackSpace,
	HostKeyKPA:              XKA, HostKeyKPB: XKB, HostKeyKPC: XKC,
	HostKeyKPD: XKD, HostKeyKPE: XKE, HostKeyKPF: XKF,
	HostKeyKPPower:       XKAsciicircum,
	HostKeyKPPercent:     XKPercent,
	HostKeyKPLess:        XKLess,
	HostKeyKPGreater:     XKGreater,
	HostKeyKPAmpersand:   XKAmpersand,
	HostKeyKPVerticalBar: XKBar,
	HostKeyKPColon:       XKColon,
	HostKeyKPHash:        XKNumbersign,
	HostKeyKPSpace:       XKKPSpace,
	HostKeyKPAt:          XKAt,
	HostKeyKPExclam:      XKExclam,
	HostKeyKPPlusMinus:   XKPlusminus,
	HostKeyKPClear:       XKClear,
	HostKeyKPClearEntry:  XKClear,
	HostKeyKPDecimal:     XKKPDecimal,

	HostKeyLAlt:   XKAltL,
	HostKeyRAlt:   XKAltR,
	HostKeyLCtrl:  XKControlL,
	HostKeyRCtrl:  XKControlR,
	HostKeyLGui:   XKMetaL,
	HostKeyRGui:   XKMetaR,
	HostKeyLShift: XKShiftL,
	HostKeyRShift: XKShiftR,

	HostKeyMode: XKISOLevel3Shift,
}
