package logging

import (
	"io"
)

//Dual writes every log entry to the rolling file and mirrors it to
//stdout. The reported byte count is the file writer's: the file is the
//durable copy, stdout is the mirror.
type Dual struct {
	fileWriter io.Writer

	stdout io.Writer
}

func (d Dual) Write(p []byte) (int, error) {
	n, err := d.fileWriter.Write(p)
	if _, mirrorErr := d.stdout.Write(p); err == nil {
		err = mirrorErr
	}

	return n, err
}
