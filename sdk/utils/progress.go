// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"fmt"
	"io"
	"sync"
	"time"
)

/* ------------ single-line progress for transfers ------------ */

// ProgressLine redraws one terminal line as bytes move. It is safe for use
// from the upload goroutine.
type ProgressLine struct {
	mu       sync.Mutex
	w        io.Writer
	label    string
	total    int64
	done     int64
	lastTick time.Time
	interval time.Duration
}

func NewProgressLine(w io.Writer, label string) *ProgressLine {
	return &ProgressLine{w: w, label: label, interval: 100 * time.Millisecond}
}

// Update records the cumulative byte count; the line is redrawn at most
// ten times per second, and always when sent reaches total.
func (p *ProgressLine) Update(sent, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done, p.total = sent, total
	p.render(sent >= total)
}

// Done draws the final state and ends the line.
func (p *ProgressLine) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.render(true)
	fmt.Fprintln(p.w)
}

func (p *ProgressLine) render(force bool) {
	if !force && time.Since(p.lastTick) < p.interval {
		return
	}
	p.lastTick = time.Now()

	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r%s: %s   ", p.label, HumanBytes(p.done))
		return
	}
	done := p.done
	if done > p.total {
		done = p.total
	}
	pct := float64(done) / float64(p.total) * 100
	fmt.Fprintf(p.w, "\r%s: %6.2f%% (%s / %s)   ", p.label, pct, HumanBytes(done), HumanBytes(p.total))
}

func HumanBytes(n int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)
	switch {
	case n >= GB:
		return fmt.Sprintf("%.2f GB", float64(n)/float64(GB))
	case n >= MB:
		return fmt.Sprintf("%.2f MB", float64(n)/float64(MB))
	case n >= KB:
		return fmt.Sprintf("%.2f KB", float64(n)/float64(KB))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
