// Package words holds the front plate of the 24h word clock: the letters,
// the word rectangles, the hour and minute phrasing tables and the display
// modes that combine them.
package words

import "github.com/coreman2200/funtimes-wordclock/internal/layout"

// ID names one word of the front plate.
type ID uint8

// Words suffixed 1 belong to the hour block, 2 to the minute block.
const (
	ES ID = iota
	IST
	FuenfM
	ZehnM
	ZwanzigM
	Dreiviertel
	Viertel
	Nach
	Vor
	Halb

	Null1
	Ein1
	Eins1
	Zwei1
	Drei1
	Vier1
	Fuenf1
	Sech1
	Sechs1
	Acht1
	Sieb1
	Sieben1
	Neun1
	Zehn1
	Elf1
	Zwoelf1
	Und1
	Zwanzig1
	Uhr1

	Ein2
	Eins2
	Zwei2
	Drei2
	Vier2
	Fuenf2
	Sech2
	Sechs2
	Sieb2
	Sieben2
	Elf2
	Acht2
	Neun2
	Zwoelf2
	Zehn2
	Und2
	Zwanzig2
	Dreissig2
	Vierzig2
	Fuenfzig2
	Minute2
	Minuten2

	Komma
	Fuenf3
	Grad

	Count
)

// Word is a labelled LED run on the plate.
type Word struct {
	Label string
	Rect  layout.Rect
}

func w(label string, row, col int) Word {
	return Word{Label: label, Rect: layout.Rect{Row: row, Col: col, Len: len([]rune(label))}}
}

var table = [Count]Word{
	ES:          w("ES", 0, 0),
	IST:         w("IST", 0, 3),
	FuenfM:      w("FÜNF", 0, 7),
	ZehnM:       w("ZEHN", 0, 12),
	ZwanzigM:    w("ZWANZIG", 1, 0),
	Dreiviertel: w("DREIVIERTEL", 1, 7),
	Viertel:     w("VIERTEL", 1, 11),
	Nach:        w("NACH", 2, 2),
	Vor:         w("VOR", 2, 6),
	Halb:        w("HALB", 2, 11),

	Null1:    w("NULL", 3, 0),
	Ein1:     w("EIN", 3, 4),
	Eins1:    w("EINS", 3, 4),
	Zwei1:    w("ZWEI", 3, 9),
	Drei1:    w("DREI", 3, 13),
	Vier1:    w("VIER", 4, 0),
	Fuenf1:   w("FÜNF", 4, 4),
	Sech1:    w("SECH", 4, 8),
	Sechs1:   w("SECHS", 4, 8),
	Acht1:    w("ACHT", 4, 13),
	Sieb1:    w("SIEB", 5, 0),
	Sieben1:  w("SIEBEN", 5, 0),
	Neun1:    w("NEUN", 5, 6),
	Zehn1:    w("ZEHN", 5, 10),
	Elf1:     w("ELF", 5, 14),
	Zwoelf1:  w("ZWÖLF", 6, 0),
	Und1:     w("UND", 6, 5),
	Zwanzig1: w("ZWANZIG", 6, 8),
	Uhr1:     w("UHR", 6, 15),

	Ein2:      w("EIN", 7, 0),
	Eins2:     w("EINS", 7, 0),
	Zwei2:     w("ZWEI", 7, 4),
	Drei2:     w("DREI", 7, 8),
	Vier2:     w("VIER", 7, 12),
	Fuenf2:    w("FÜNF", 8, 0),
	Sech2:     w("SECH", 8, 4),
	Sechs2:    w("SECHS", 8, 4),
	Sieb2:     w("SIEB", 8, 9),
	Sieben2:   w("SIEBEN", 8, 9),
	Elf2:      w("ELF", 8, 15),
	Acht2:     w("ACHT", 9, 0),
	Neun2:     w("NEUN", 9, 4),
	Zwoelf2:   w("ZWÖLF", 9, 8),
	Zehn2:     w("ZEHN", 9, 13),
	Und2:      w("UND", 10, 0),
	Zwanzig2:  w("ZWANZIG", 10, 3),
	Dreissig2: w("DREISSIG", 10, 10),
	Vierzig2:  w("VIERZIG", 11, 0),
	Fuenfzig2: w("FÜNFZIG", 11, 7),
	Minute2:   w("MINUTE", 12, 0),
	Minuten2:  w("MINUTEN", 12, 0),

	Komma:  w("KOMMA", 12, 8),
	Fuenf3: w("FÜNF", 12, 13),
	Grad:   w("GRAD", 13, 0),
}

// Lookup returns the word for id. ok is false for ids >= Count.
func Lookup(id ID) (Word, bool) {
	if id >= Count {
		return Word{}, false
	}
	return table[id], true
}

func (id ID) String() string {
	if id >= Count {
		return "?"
	}
	return table[id].Label
}

// Plate is the front plate, one string per row.
var Plate = [layout.Rows]string{
	"ESKISTLFÜNFVZEHNKP",
	"ZWANZIGDREIVIERTEL",
	"TGNACHVORJMHALBQZW",
	"NULLEINSXZWEIDREIT",
	"VIERFÜNFSECHSACHTO",
	"SIEBENNEUNZEHNELFQ",
	"ZWÖLFUNDZWANZIGUHR",
	"EINSZWEIDREIVIERKA",
	"FÜNFSECHSSIEBENELF",
	"ACHTNEUNZWÖLFZEHNU",
	"UNDZWANZIGDREISSIG",
	"VIERZIGFÜNFZIGXRMY",
	"MINUTENJKOMMAFÜNFA",
	"GRADRCELSIUSLXNEQT",
	"WORTUHRZEITANZEIGE",
	"NACHTSTROMSPARENXY",
}
