// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

// HostScancode identifies a physical key by its USB HID Keyboard/Keypad page
// usage code (plus the Consumer page extensions the host toolkit layers on
// top, e.g. media keys), independent of keyboard layout or keysym.
type HostScancode uint16

// TranslateKeysym maps a host keycode to the X11 keysym used by the classic
// KeyEvent message. Printable ASCII and Latin-1 code points (0x20..0x7E,
// 0xA0..0xFF) pass through unchanged; when shift is held, alphabetic and
// Latin-1 letter keys are folded to their upper-case code point. All other
// keys are resolved via keysymTable; an unrecognized key yields XKVoidSymbol.
//
// This never panics and never indexes out of bounds: it is a plain map
// lookup plus arithmetic on a bounded range.
func TranslateKeysym(key HostKeycode, shift bool) uint32 {
	if key <= 0xFF {
		k := uint32(key)
		if (k >= ' ' && k <= '~') || k >= 0xA0 {
			if shift && ((k >= uint32('a') && k <= uint32('z')) || (k >= 0xE0 && k <= 0xFE && k != 0xF7)) {
				k -= 0x20
			}
			return k
		}
	}

	if x11, ok := keysymTable[key]; ok {
		return x11
	}
	return XKVoidSymbol
}

// ScancodeToQNum maps a host scancode to the QEMU XT ("qnum") scancode used
// by the QEMU Extended Key Event message. A scancode outside the table's
// range, or one with no mapping, yields 0.
func ScancodeToQNum(sc HostScancode) uint32 {
	if int(sc) >= len(qnumTable) {
		return 0
	}
	return uint32(qnumTable[sc])
}

// keyFrame selects which outgoing wire frame represents a key event, per the
// selection rule: prefer the QEMU extended frame when the server advertised
// support for it and the scancode has a known qnum mapping; otherwise fall
// back to the classic frame when the keysym is mappable; otherwise the event
// is unmappable and should be dropped.
type keyFrame int

const (
	keyFrameDrop keyFrame = iota
	keyFrameClassic
	keyFrameExtended
)

func selectKeyFrame(qemuSupported bool, keysym uint32, qnum uint32) keyFrame {
	if qemuSupported && qnum != 0 {
		return keyFrameExtended
	}
	if keysym != XKVoidSymbol {
		return keyFrameClassic
	}
	return keyFrameDrop
}
