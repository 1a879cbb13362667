// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package enginelog

import "os"

const (
	csi    = "\x1B["
	white  = "37m"
	green  = "32m"
	yellow = "33;1m"
	red    = "31;1m"
	magenta = "35;1m"
)

var colorMap = map[int]string{
	DEBUG: white,
	INFO:  green,
	WARN:  yellow,
	ERROR: red,
	FATAL: magenta,
}

// Console is a console writer used for logging.
type Console struct {
	writer *os.File
	color  bool
}

// NewConsole creates and returns a new logger Console writer. If color is
// true, this writer uses ANSI codes to color messages by level.
func NewConsole(color bool) *Console {
	return &Console{os.Stdout, color}
}

func (w *Console) Write(event *Event) {
	if w.color {
		w.writer.Write([]byte(csi))
		w.writer.Write([]byte(colorMap[event.level]))
	}
	w.writer.Write([]byte(event.fmsg))
	if w.color {
		w.writer.Write([]byte(csi))
		w.writer.Write([]byte(white))
	}
}

func (w *Console) Close() {}
func (w *Console) Sync()  {}
