package keyboard

// Key codes from the Linux input-event-codes.h table. The keymap is keyed
// by these even on other platforms so the tables stay testable everywhere.
const (
	keyBackspace  uint16 = 14
	keyTab        uint16 = 15
	keyEnter      uint16 = 28
	keyLeftCtrl   uint16 = 29
	keyLeftShift  uint16 = 42
	keyRightShift uint16 = 54
	keyLeftAlt    uint16 = 56
	keySpace      uint16 = 57
	keyCapsLock   uint16 = 58
	keyRightCtrl  uint16 = 97
	keyRightAlt   uint16 = 100
)

// keysym is the pair of characters a key produces on a US layout.
type keysym struct {
	base    rune
	shifted rune
}

// usLayout maps key codes to characters for a standard US keyboard.
var usLayout = map[uint16]keysym{
	2:  {'1', '!'},
	3:  {'2', '@'},
	4:  {'3', '#'},
	5:  {'4', '$'},
	6:  {'5', '%'},
	7:  {'6', '^'},
	8:  {'7', '&'},
	9:  {'8', '*'},
	10: {'9', '('},
	11: {'0', ')'},
	12: {'-', '_'},
	13: {'=', '+'},

	16: {'q', 'Q'},
	17: {'w', 'W'},
	18: {'e', 'E'},
	19: {'r', 'R'},
	20: {'t', 'T'},
	21: {'y', 'Y'},
	22: {'u', 'U'},
	23: {'i', 'I'},
	24: {'o', 'O'},
	25: {'p', 'P'},
	26: {'[', '{'},
	27: {']', '}'},

	30: {'a', 'A'},
	31: {'s', 'S'},
	32: {'d', 'D'},
	33: {'f', 'F'},
	34: {'g', 'G'},
	35: {'h', 'H'},
	36: {'j', 'J'},
	37: {'k', 'K'},
	38: {'l', 'L'},
	39: {';', ':'},
	40: {'\'', '"'},
	41: {'`', '~'},
	43: {'\\', '|'},

	44: {'z', 'Z'},
	45: {'x', 'X'},
	46: {'c', 'C'},
	47: {'v', 'V'},
	48: {'b', 'B'},
	49: {'n', 'N'},
	50: {'m', 'M'},
	51: {',', '<'},
	52: {'.', '>'},
	53: {'/', '?'},

	keyBackspace: {'\b', '\b'},
	keyTab:       {'\t', '\t'},
	keyEnter:     {'\n', '\n'},
	keySpace:     {' ', ' '},
}

// runeForKey translates a key press into the character it types. capsLock
// inverts shift for letter keys only.
func runeForKey(code uint16, shift, capsLock bool) (rune, bool) {
	sym, ok := usLayout[code]
	if !ok {
		return 0, false
	}
	shifted := shift
	if capsLock && sym.base >= 'a' && sym.base <= 'z' {
		shifted = !shifted
	}
	if shifted {
		return sym.shifted, true
	}
	return sym.base, true
}

// keystroke is the key press that produces one character.
type keystroke struct {
	code  uint16
	shift bool
}

var keystrokes = buildKeystrokes()

func buildKeystrokes() map[rune]keystroke {
	m := make(map[rune]keystroke, 2*len(usLayout))
	for code, sym := range usLayout {
		if _, ok := m[sym.base]; !ok {
			m[sym.base] = keystroke{code: code}
		}
		if _, ok := m[sym.shifted]; !ok {
			m[sym.shifted] = keystroke{code: code, shift: true}
		}
	}
	// Replacement text uses carriage returns for line breaks.
	m['\r'] = keystroke{code: keyEnter}
	return m
}

// keystrokeForRune translates a character into the key press producing it.
func keystrokeForRune(r rune) (keystroke, bool) {
	ks, ok := keystrokes[r]
	return ks, ok
}
