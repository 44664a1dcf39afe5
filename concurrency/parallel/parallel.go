// Package parallel maps a function over a slice with bounded concurrency.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type Options struct {
	MaxWorkers int // <= 0 表示不限制
}

// Map 并发执行 fn，结果顺序与 inputs 一致；任一出错即取消其余任务并返回该错误
func Map[T, R any](ctx context.Context, inputs []T, fn func(context.Context, T) (R, error), opts Options) ([]R, error) {
	out := make([]R, len(inputs))
	if len(inputs) == 0 {
		return out, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if opts.MaxWorkers > 0 {
		eg.SetLimit(opts.MaxWorkers)
	}
	for i, in := range inputs {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			r, err := fn(egCtx, in)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	// 外部 ctx 在派发途中被取消
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
