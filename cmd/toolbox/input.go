package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"toolbox/concurrency/parallel"
	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
)

// parseNumbers 按空白或逗号切分
func parseNumbers(r io.Reader) ([]float64, error) {
	var out []float64
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16<<20)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.FieldsFunc(sc.Text(), func(c rune) bool { return c == ',' || unicode.IsSpace(c) })
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errorx.Newf(errCode.INVALID_VALUE, "line %d: %q is not a number", line, f)
			}
			out = append(out, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errorx.Wrap(errorx.Newf(errCode.IO_FAILURE, "%v", err), "read numbers")
	}
	return out, nil
}

// readNumberFiles 并发读取多个文件，按参数顺序拼接
func readNumberFiles(ctx context.Context, paths []string) ([]float64, error) {
	chunks, err := parallel.Map(ctx, paths, func(_ context.Context, path string) ([]float64, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, errorx.Wrap(errorx.Newf(errCode.IO_FAILURE, "%v", err), "open "+path)
		}
		defer f.Close()
		return parseNumbers(f)
	}, parallel.Options{MaxWorkers: 8})
	if err != nil {
		return nil, err
	}
	var out []float64
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out, nil
}

func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16<<20)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errorx.Wrap(errorx.Newf(errCode.IO_FAILURE, "%v", err), "read input")
	}
	return out, nil
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errorx.Wrap(errorx.Newf(errCode.IO_FAILURE, "%v", err), "read "+path)
	}
	return string(b), nil
}
