package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Observer получает уведомления о ходе генерации
type Observer interface {
	Start(label string, total int)
	Tick()
	Finish()
}

// Nop игнорирует все уведомления
type Nop struct{}

func (Nop) Start(string, int) {}
func (Nop) Tick()             {}
func (Nop) Finish()           {}

const barWidth = 30

// Bar выводит текстовый индикатор прогресса в writer
type Bar struct {
	mu      sync.Mutex
	w       io.Writer
	label   string
	total   int
	current int
	active  bool
}

// NewBar создает индикатор прогресса
func NewBar(w io.Writer) *Bar {
	return &Bar{w: w}
}

// Start начинает новую полосу прогресса; незавершенная предыдущая закрывается
func (b *Bar) Start(label string, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.active {
		fmt.Fprintln(b.w)
	}

	b.label = label
	b.total = total
	b.current = 0
	b.active = true
	b.render()
}

// Tick увеличивает счетчик на единицу
func (b *Bar) Tick() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return
	}
	if b.current < b.total {
		b.current++
	}
	b.render()
}

// Finish завершает текущую полосу
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return
	}
	b.current = b.total
	b.render()
	fmt.Fprintln(b.w)
	b.active = false
}

func (b *Bar) render() {
	percent := 100
	filled := barWidth
	if b.total > 0 {
		percent = b.current * 100 / b.total
		filled = b.current * barWidth / b.total
	}

	fmt.Fprintf(b.w, "\r%s  %3d%% [%s%s] %d/%d",
		b.label,
		percent,
		strings.Repeat("=", filled),
		strings.Repeat(" ", barWidth-filled),
		b.current,
		b.total,
	)
}
