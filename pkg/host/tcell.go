package host

import "github.com/gdamore/tcell/v2"

// FromTcell converts a tcell mouse event. tcell numbers the right button
// Button2 and the middle button Button3.
func FromTcell(ev *tcell.EventMouse) Input {
	x, y := ev.Position()
	buttons := ev.Buttons()

	var b Buttons
	if buttons&tcell.Button1 != 0 {
		b |= Primary
	}
	if buttons&tcell.Button2 != 0 {
		b |= Secondary
	}
	if buttons&tcell.Button3 != 0 {
		b |= Middle
	}
	if buttons&tcell.WheelUp != 0 {
		b |= WheelUp
	}
	if buttons&tcell.WheelDown != 0 {
		b |= WheelDown
	}
	return Input{At: Cell{Col: x, Row: y}, Buttons: b}
}
