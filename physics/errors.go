// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"fmt"

	"github.com/g3n/engine2d/enginelog"
)

// PreconditionError reports a violated programming precondition: mutating
// a locked World, constructing a pulley or gear joint with a zero ratio, moving a
// stale body, and similar caller errors that are never silently corrected.
// It is logged at ERROR before the panic that carries it.
type PreconditionError struct{ Msg string }

func (e *PreconditionError) Error() string { return "physics: " + e.Msg }

func fail(format string, v ...interface{}) {
	err := &PreconditionError{Msg: fmt.Sprintf(format, v...)}
	enginelog.Default.Error(err.Msg)
	panic(err)
}
