// input_keymap.go - Host key code table

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

// DOM-style key codes written into the engine input vector. The reference
// engine steers with the arrow codes.
const (
	KeyCodeEnter      uint32 = 13
	KeyCodeShift      uint32 = 16
	KeyCodeControl    uint32 = 17
	KeyCodeEscape     uint32 = 27
	KeyCodeSpace      uint32 = 32
	KeyCodeArrowLeft  uint32 = 37
	KeyCodeArrowUp    uint32 = 38
	KeyCodeArrowRight uint32 = 39
	KeyCodeArrowDown  uint32 = 40
	KeyCodeDigit0     uint32 = 48
	KeyCodeA          uint32 = 65
)

type keyCodeEntry struct {
	Name string
	Code uint32
}

// keyCodeTable lists every code the host backends can emit.
func keyCodeTable() []keyCodeEntry {
	table := []keyCodeEntry{
		{"Enter", KeyCodeEnter},
		{"Shift", KeyCodeShift},
		{"Control", KeyCodeControl},
		{"Escape", KeyCodeEscape},
		{"Space", KeyCodeSpace},
		{"ArrowLeft", KeyCodeArrowLeft},
		{"ArrowUp", KeyCodeArrowUp},
		{"ArrowRight", KeyCodeArrowRight},
		{"ArrowDown", KeyCodeArrowDown},
	}
	for i := range uint32(10) {
		table = append(table, keyCodeEntry{Name: "Digit" + string(rune('0'+i)), Code: KeyCodeDigit0 + i})
	}
	for i := range uint32(26) {
		table = append(table, keyCodeEntry{Name: string(rune('A' + i)), Code: KeyCodeA + i})
	}
	return table
}

func keyCodeName(code uint32) string {
	for _, e := range keyCodeTable() {
		if e.Code == code {
			return e.Name
		}
	}
	return ""
}
