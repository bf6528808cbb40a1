package bridge

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"phyboot/internal/domain"
)

type inputResult struct {
	line string
	err  error
}

// LineInput reads human lines from r without tying the caller to the
// blocking read: ReadLine gives up when its context is done. The scanning
// goroutine stays parked on r until the process exits.
type LineInput struct {
	r     io.Reader
	once  sync.Once
	lines chan inputResult
}

func NewLineInput(r io.Reader) *LineInput {
	return &LineInput{r: r}
}

// ReadLine returns the next line without its terminator, or io.EOF.
func (in *LineInput) ReadLine(ctx context.Context) (string, error) {
	in.once.Do(in.start)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-in.lines:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	}
}

func (in *LineInput) start() {
	in.lines = make(chan inputResult)
	go func() {
		defer close(in.lines)
		sc := bufio.NewScanner(in.r)
		for sc.Scan() {
			in.lines <- inputResult{line: strings.TrimRight(sc.Text(), "\r")}
		}
		if err := sc.Err(); err != nil {
			in.lines <- inputResult{err: err}
		}
	}()
}

var _ domain.InputSource = (*LineInput)(nil)
