// input_script.go - Lua input scripts for headless replay

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

/*
input_script.go - Scripted host events

A script schedules host events against frame numbers, which makes headless
runs reproducible. Available functions:

	key_down(code)   key_up(code)   blur()   focus()   wait(frames)

Events are stamped with the current frame cursor; wait advances it. Example:

	key_down(38)
	wait(30)
	key_up(38)
	blur()
	wait(10)
	focus()
*/

package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

type scheduledEvent struct {
	Frame int
	Event HostEvent
}

// ScriptTimeline is a list of host events in frame order. wait never moves
// the cursor backwards, so append order is frame order.
type ScriptTimeline struct {
	events []scheduledEvent
	next   int
	end    int
}

// LoadScriptFile runs a Lua script from disk and returns its timeline.
func LoadScriptFile(path string) (*ScriptTimeline, error) {
	return loadScript(func(L *lua.LState) error { return L.DoFile(path) }, path)
}

// LoadScriptString runs Lua source and returns its timeline.
func LoadScriptString(src string) (*ScriptTimeline, error) {
	return loadScript(func(L *lua.LState) error { return L.DoString(src) }, "<string>")
}

func loadScript(run func(*lua.LState) error, name string) (*ScriptTimeline, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	lua.OpenBase(L)

	t := &ScriptTimeline{}
	cursor := 0
	push := func(ev HostEvent) {
		t.events = append(t.events, scheduledEvent{Frame: cursor, Event: ev})
	}
	keyCode := func(L *lua.LState) uint32 {
		code := L.CheckInt(1)
		if code <= 0 || code > 0xFFFF {
			L.ArgError(1, fmt.Sprintf("key code out of range: %d", code))
		}
		return uint32(code)
	}

	L.SetGlobal("key_down", L.NewFunction(func(L *lua.LState) int {
		push(KeyDownEvent(keyCode(L)))
		return 0
	}))
	L.SetGlobal("key_up", L.NewFunction(func(L *lua.LState) int {
		push(KeyUpEvent(keyCode(L)))
		return 0
	}))
	L.SetGlobal("blur", L.NewFunction(func(L *lua.LState) int {
		push(BlurEvent())
		return 0
	}))
	L.SetGlobal("focus", L.NewFunction(func(L *lua.LState) int {
		push(FocusEvent())
		return 0
	}))
	L.SetGlobal("wait", L.NewFunction(func(L *lua.LState) int {
		n := L.OptInt(1, 1)
		if n < 0 {
			L.ArgError(1, "wait needs a non-negative frame count")
		}
		cursor += n
		return 0
	}))

	if err := run(L); err != nil {
		return nil, fmt.Errorf("input script %s: %w", name, err)
	}
	t.end = cursor
	return t, nil
}

// Frames is the frame count the script covers, including the frame its last
// events land on.
func (t *ScriptTimeline) Frames() int {
	return t.end + 1
}

func (t *ScriptTimeline) Len() int {
	return len(t.events)
}

// Feed pushes every event scheduled for frame into q. Frames must be fed in
// increasing order.
func (t *ScriptTimeline) Feed(frame int, q *EventQueue) {
	for t.next < len(t.events) && t.events[t.next].Frame <= frame {
		q.Push(t.events[t.next].Event)
		t.next++
	}
}
