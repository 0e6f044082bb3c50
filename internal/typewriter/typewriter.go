// Package typewriter drives the type-pause-delete animation of the hero line.
package typewriter

import "time"

const (
	MinSpeed = 30 * time.Millisecond
	MinPause = 50 * time.Millisecond
)

// Frame is the text shown after a step and how long it stays up.
type Frame struct {
	Text    string        `json:"text"`
	Delay   time.Duration `json:"-"`
	DelayMS int64         `json:"delay_ms"`
}

// Typewriter types each word character by character, pauses, deletes it and
// moves on. Without loop it stops once the last word is fully typed.
type Typewriter struct {
	words [][]rune
	speed time.Duration
	pause time.Duration
	loop  bool

	word     int
	char     int
	deleting bool
	finished bool
}

func New(words []string, speed, pause time.Duration, loop bool) *Typewriter {
	tw := &Typewriter{
		speed: max(speed, MinSpeed),
		pause: max(pause, MinPause),
		loop:  loop,
	}
	for _, w := range words {
		tw.words = append(tw.words, []rune(w))
	}
	return tw
}

// Text is what is currently displayed.
func (tw *Typewriter) Text() string {
	if len(tw.words) == 0 {
		return ""
	}
	return string(tw.current()[:tw.char])
}

// Done reports whether the animation has stopped for good.
func (tw *Typewriter) Done() bool {
	return tw.finished || len(tw.words) == 0
}

// Delay is how long to wait before the next Step.
func (tw *Typewriter) Delay() time.Duration {
	if !tw.deleting && len(tw.words) > 0 && tw.char == len(tw.current()) {
		return tw.pause
	}
	return tw.speed
}

func (tw *Typewriter) current() []rune {
	return tw.words[tw.word%len(tw.words)]
}

func (tw *Typewriter) last() bool {
	return tw.word == len(tw.words)-1
}

// Step advances one character or phase change. It returns false once done.
func (tw *Typewriter) Step() bool {
	if tw.Done() {
		return false
	}
	word := tw.current()

	switch {
	case !tw.deleting && tw.char < len(word):
		tw.char++
	case !tw.deleting:
		if !tw.loop && tw.last() {
			tw.finished = true
			return false
		}
		tw.deleting = true
	case tw.char > 0:
		tw.char--
	default:
		tw.word = (tw.word + 1) % len(tw.words)
		tw.deleting = false
	}
	return true
}

// Script plays the animation from its current position for at most steps
// steps, or until it finishes, and returns every frame.
func (tw *Typewriter) Script(steps int) []Frame {
	var frames []Frame
	for i := 0; i < steps && tw.Step(); i++ {
		d := tw.Delay()
		frames = append(frames, Frame{Text: tw.Text(), Delay: d, DelayMS: d.Milliseconds()})
	}
	return frames
}

// CycleLength is the number of steps needed to type and delete every word
// once.
func CycleLength(words []string) int {
	n := 0
	for _, w := range words {
		// type each rune, turn around, delete each rune, advance
		n += 2*len([]rune(w)) + 2
	}
	return n
}
