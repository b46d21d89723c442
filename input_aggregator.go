// input_aggregator.go - Held-key tracking for the shared engine input vector

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

// InputAggregator tracks the codes currently held by the host.
//
// Slot order in the serialized vector is first-inserted-first-slot: a code
// keeps its relative position until it is released, and a re-press after
// release appends it at the end. The engine reads "action slot N" from that
// position, so the order is part of the contract.
type InputAggregator struct {
	order []uint32
	held  map[uint32]struct{}
}

func NewInputAggregator() *InputAggregator {
	return &InputAggregator{
		order: make([]uint32, 0, InputCapacity),
		held:  make(map[uint32]struct{}, InputCapacity),
	}
}

// KeyDown records code as held. Repeats are ignored. Code 0 marks an empty
// slot and is never recorded.
func (a *InputAggregator) KeyDown(code uint32) {
	if code == 0 {
		return
	}
	if _, ok := a.held[code]; ok {
		return
	}
	a.held[code] = struct{}{}
	a.order = append(a.order, code)
}

// KeyUp releases code if it is held.
func (a *InputAggregator) KeyUp(code uint32) {
	if _, ok := a.held[code]; !ok {
		return
	}
	delete(a.held, code)
	for i, c := range a.order {
		if c == code {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// ReleaseAll drops every held code.
func (a *InputAggregator) ReleaseAll() {
	clear(a.held)
	a.order = a.order[:0]
}

// Serialize writes the held codes into dst in insertion order and zero-fills
// the remaining slots. Codes beyond the vector capacity are dropped.
func (a *InputAggregator) Serialize(dst *[InputCapacity]uint32) {
	n := copy(dst[:], a.order)
	clear(dst[n:])
}

// Held returns a copy of the held codes in insertion order.
func (a *InputAggregator) Held() []uint32 {
	out := make([]uint32, len(a.order))
	copy(out, a.order)
	return out
}

func (a *InputAggregator) Len() int {
	return len(a.order)
}
