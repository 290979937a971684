package words

// HourStyle selects how the hour is phrased.
type HourStyle uint8

const (
	HourSkip HourStyle = iota
	Hour12
	Hour12Uhr
	Hour24
	Hour24Uhr
	Hour12UhrDigital
	HourStyleCount
)

var hourStyleNames = [HourStyleCount]string{
	HourSkip:         "-",
	Hour12:           "HH (12)",
	Hour12Uhr:        "HH UHR (12)",
	Hour24:           "HH (24)",
	Hour24Uhr:        "HH UHR (24)",
	Hour12UhrDigital: "HH UHR (12) - MM",
}

func (s HourStyle) String() string {
	if s >= HourStyleCount {
		return "?"
	}
	return hourStyleNames[s]
}

// MinuteStyle selects how the minutes are phrased.
type MinuteStyle uint8

const (
	MinuteNone MinuteStyle = iota
	MinuteWest5
	MinuteEast5
	MinuteDigital
	MinuteDigitalMinutes
	MinuteStyleCount
)

var minuteStyleNames = [MinuteStyleCount]string{
	MinuteNone:           "-",
	MinuteWest5:          "FÜNF NACH / VIERTEL NACH / HALB",
	MinuteEast5:          "VIERTEL / HALB / DREIVIERTEL",
	MinuteDigital:        "MM",
	MinuteDigitalMinutes: "MM MINUTEN",
}

func (s MinuteStyle) String() string {
	if s >= MinuteStyleCount {
		return "?"
	}
	return minuteStyleNames[s]
}

// HourSlots has one extra slot so hour 23 plus an offset of one indexes
// slot 24, which repeats slot 0.
const HourSlots = 25

const (
	MaxMinuteWords = 7
	MaxHourWords   = 4
)

// MinuteEntry phrases one minute of the hour.
type MinuteEntry struct {
	HourOffset int
	Words      []ID
}

// Mode is one display mode: a minute style paired with an hour style.
type Mode struct {
	Minutes     MinuteStyle
	Hours       HourStyle
	Description string
}

const TemperatureMode = 7

var Modes = []Mode{
	{MinuteWest5, Hour12, "ES IST FÜNF NACH EINS"},
	{MinuteEast5, Hour12, "ES IST VIERTEL ZWEI"},
	{MinuteDigital, Hour12UhrDigital, "ES IST EIN UHR SIEBEN"},
	{MinuteDigital, Hour24Uhr, "ES IST DREIZEHN UHR SIEBEN"},
	{MinuteDigitalMinutes, Hour24Uhr, "ES IST DREIZEHN UHR SIEBEN MINUTEN"},
	{MinuteWest5, Hour24, "ES IST FÜNF NACH DREIZEHN"},
	{MinuteNone, Hour12Uhr, "ES IST EIN UHR"},
	TemperatureMode: {MinuteNone, HourSkip, "TEMPERATUR"},
}

// ModeCount is the number of display modes including the temperature slot.
var ModeCount = len(Modes)

var (
	MinuteTable [MinuteStyleCount][60]MinuteEntry
	HourTable   [HourStyleCount][HourSlots][]ID
)

// numerals is one block of number words on the plate.
type numerals struct {
	ein, eins, zwei, drei, vier, fuenf ID
	sech, sechs, sieb, sieben, acht    ID
	neun, zehn, elf, zwoelf, und       ID
	tens                               map[int]ID
}

var hourNumerals = numerals{
	ein: Ein1, eins: Eins1, zwei: Zwei1, drei: Drei1, vier: Vier1,
	fuenf: Fuenf1, sech: Sech1, sechs: Sechs1, sieb: Sieb1, sieben: Sieben1,
	acht: Acht1, neun: Neun1, zehn: Zehn1, elf: Elf1, zwoelf: Zwoelf1, und: Und1,
	tens: map[int]ID{2: Zwanzig1},
}

var minuteNumerals = numerals{
	ein: Ein2, eins: Eins2, zwei: Zwei2, drei: Drei2, vier: Vier2,
	fuenf: Fuenf2, sech: Sech2, sechs: Sechs2, sieb: Sieb2, sieben: Sieben2,
	acht: Acht2, neun: Neun2, zehn: Zehn2, elf: Elf2, zwoelf: Zwoelf2, und: Und2,
	tens: map[int]ID{2: Zwanzig2, 3: Dreissig2, 4: Vierzig2, 5: Fuenfzig2},
}

// unit is the stand-alone word for 1..12.
func (n numerals) unit(v int) ID {
	return [...]ID{0, n.eins, n.zwei, n.drei, n.vier, n.fuenf, n.sechs, n.sieben,
		n.acht, n.neun, n.zehn, n.elf, n.zwoelf}[v]
}

// prefix is the short form used in front of ZEHN or UND.
func (n numerals) prefix(v int) ID {
	return [...]ID{0, n.ein, n.zwei, n.drei, n.vier, n.fuenf, n.sech, n.sieb,
		n.acht, n.neun}[v]
}

// words spells v (1..59) the German way: SIEB ZEHN, EIN UND ZWANZIG.
func (n numerals) words(v int) []ID {
	switch {
	case v <= 0:
		return nil
	case v <= 12:
		return []ID{n.unit(v)}
	case v < 20:
		return []ID{n.prefix(v - 10), n.zehn}
	case v%10 == 0:
		return []ID{n.tens[v/10]}
	}
	u := n.prefix(v % 10)
	switch v % 10 {
	case 6:
		u = n.sechs
	case 7:
		u = n.sieben
	}
	return []ID{u, n.und, n.tens[v/10]}
}

func with(ids []ID, more ...ID) []ID {
	out := make([]ID, 0, len(ids)+len(more))
	out = append(out, ids...)
	return append(out, more...)
}

func buildHours() {
	for h := 0; h < HourSlots; h++ {
		hh := h % 24
		h12 := hh % 12

		if h12 == 0 {
			HourTable[Hour12][h] = []ID{Zwoelf1}
			HourTable[Hour12Uhr][h] = []ID{Zwoelf1, Uhr1}
		} else {
			HourTable[Hour12][h] = hourNumerals.words(h12)
			HourTable[Hour12Uhr][h] = with(hourNumerals.words(h12), Uhr1)
		}
		if h12 == 1 {
			HourTable[Hour12Uhr][h] = []ID{Ein1, Uhr1}
		}

		switch {
		case hh == 0:
			HourTable[Hour24][h] = []ID{Null1}
			HourTable[Hour24Uhr][h] = []ID{Null1, Uhr1}
		case hh == 1:
			HourTable[Hour24][h] = []ID{Eins1}
			HourTable[Hour24Uhr][h] = []ID{Ein1, Uhr1}
		default:
			HourTable[Hour24][h] = hourNumerals.words(hh)
			HourTable[Hour24Uhr][h] = with(hourNumerals.words(hh), Uhr1)
		}

		switch {
		case hh == 0:
			HourTable[Hour12UhrDigital][h] = []ID{Null1, Uhr1}
		case h12 == 0:
			HourTable[Hour12UhrDigital][h] = []ID{Zwoelf1, Uhr1}
		default:
			HourTable[Hour12UhrDigital][h] = HourTable[Hour12Uhr][h]
		}
	}
}

// fiveMinutes expands one entry per five minute bucket into 60 minutes.
func fiveMinutes(style MinuteStyle, buckets [12]MinuteEntry) {
	for m := 0; m < 60; m++ {
		MinuteTable[style][m] = buckets[m/5]
	}
}

func buildMinutes() {
	fiveMinutes(MinuteWest5, [12]MinuteEntry{
		{0, nil},
		{0, []ID{FuenfM, Nach}},
		{0, []ID{ZehnM, Nach}},
		{0, []ID{Viertel, Nach}},
		{0, []ID{ZwanzigM, Nach}},
		{1, []ID{FuenfM, Vor, Halb}},
		{1, []ID{Halb}},
		{1, []ID{FuenfM, Nach, Halb}},
		{1, []ID{ZwanzigM, Vor}},
		{1, []ID{Viertel, Vor}},
		{1, []ID{ZehnM, Vor}},
		{1, []ID{FuenfM, Vor}},
	})
	fiveMinutes(MinuteEast5, [12]MinuteEntry{
		{0, nil},
		{0, []ID{FuenfM, Nach}},
		{0, []ID{ZehnM, Nach}},
		{1, []ID{Viertel}},
		{1, []ID{ZehnM, Vor, Halb}},
		{1, []ID{FuenfM, Vor, Halb}},
		{1, []ID{Halb}},
		{1, []ID{FuenfM, Nach, Halb}},
		{1, []ID{ZehnM, Nach, Halb}},
		{1, []ID{Dreiviertel}},
		{1, []ID{ZehnM, Vor}},
		{1, []ID{FuenfM, Vor}},
	})
	for m := 0; m < 60; m++ {
		MinuteTable[MinuteNone][m] = MinuteEntry{}
		MinuteTable[MinuteDigital][m] = MinuteEntry{Words: minuteNumerals.words(m)}
		switch m {
		case 0:
			MinuteTable[MinuteDigitalMinutes][m] = MinuteEntry{}
		case 1:
			MinuteTable[MinuteDigitalMinutes][m] = MinuteEntry{Words: []ID{Eins2, Minute2}}
		default:
			MinuteTable[MinuteDigitalMinutes][m] = MinuteEntry{Words: with(minuteNumerals.words(m), Minuten2)}
		}
	}
}

func init() {
	buildHours()
	buildMinutes()
	if err := Validate(); err != nil {
		panic(err)
	}
}
