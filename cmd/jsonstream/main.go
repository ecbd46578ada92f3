// Command jsonstream reads JSON from stdin or a file in configurable-size
// chunks and prints each top-level value as it is produced, demonstrating
// the incremental parser against real input instead of a unit test.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/robfig/cron/v3"

	"github.com/jsonstream/jsonstream"
	"github.com/jsonstream/jsonstream/jsonvalue"
)

func main() {
	var (
		mode      string
		chunkSize int
		follow    bool
		path      string
		logLevel  string
	)
	flag.StringVar(&mode, "mode", "stream", "stream mode: single, stream, or array")
	flag.IntVar(&chunkSize, "chunk", 4096, "bytes absorbed per read")
	flag.BoolVar(&follow, "follow", false, "keep reading from path as it grows (tail mode)")
	flag.StringVar(&path, "file", "", "file to read (default: stdin)")
	flag.StringVar(&logLevel, "log-level", "warn", "hclog level: trace, debug, info, warn, error, off")
	flag.Parse()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "jsonstream",
		Output: os.Stderr,
		Level:  hclog.LevelFromString(logLevel),
	})

	if err := run(mode, chunkSize, follow, path, logger); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("jsonstream: %s", err))
		os.Exit(1)
	}
}

func parseMode(s string) (jsonstream.Mode, error) {
	switch s {
	case "single":
		return jsonstream.SingleValue, nil
	case "stream":
		return jsonstream.ValueStream, nil
	case "array":
		return jsonstream.UnwrapArray, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

func run(modeName string, chunkSize int, follow bool, path string, logger hclog.Logger) error {
	m, err := parseMode(modeName)
	if err != nil {
		return err
	}

	var src io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	p := jsonstream.New[*jsonvalue.Value](m, jsonvalue.NewBuilder(), logger)

	// mu gives the stats job and the read loop exclusive access to p.
	var mu sync.Mutex
	var sched *cron.Cron
	if follow {
		sched = cron.New()
		sched.AddFunc("@every 5s", func() {
			mu.Lock()
			s := p.Stats()
			mu.Unlock()
			fmt.Fprintln(os.Stderr, color.CyanString(
				"[jsonstream] id=%s buffer=%d/%d compactions=%d", p.ID(), s.BufferLen, s.BufferCap, s.Compactions))
		})
		sched.Start()
		defer sched.Stop()
	}

	r := bufio.NewReaderSize(src, chunkSize)
	buf := make([]byte, chunkSize)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			mu.Lock()
			values, err := p.Absorb(buf[:n])
			mu.Unlock()
			printValues(values)
			if err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			if follow {
				time.Sleep(100 * time.Millisecond)
				continue
			}
			break
		}
		if readErr != nil {
			return readErr
		}
	}

	mu.Lock()
	values, err := p.Finish()
	mu.Unlock()
	printValues(values)
	return err
}

func printValues(values []*jsonvalue.Value) {
	for _, v := range values {
		fmt.Println(color.GreenString("%s", v.String()))
	}
}
