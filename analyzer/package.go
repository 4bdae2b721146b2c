package analyzer

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/analyzer/pass"
	"github.com/viant/odoolint/inspector/repository"
	"golang.org/x/sync/errgroup"
)

// AnalyzeDir detects module roots under root and analyzes them concurrently.
// A module that cannot be opened yields a Result with Error set, other modules are still analyzed.
func (a *Analyzer) AnalyzeDir(ctx context.Context, root string) ([]*Result, error) {
	roots, err := repository.New(a.config.ExcludedDirs...).Detect(ctx, a.fs, root)
	if err != nil {
		return nil, err
	}
	results := make([]*Result, len(roots))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(a.workers)
	for i, moduleRoot := range roots {
		i, moduleRoot := i, moduleRoot
		group.Go(func() error {
			result, err := a.AnalyzeModule(ctx, moduleRoot)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				glog.Warningf("failed to analyze %s: %v", moduleRoot, err)
				result = &Result{Module: repository.ModuleName(moduleRoot), Root: moduleRoot, Error: err.Error()}
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// AnalyzeModule opens the module at root, runs module checks, then dispatches python nodes to node checks
func (a *Analyzer) AnalyzeModule(ctx context.Context, root string) (*Result, error) {
	unit, err := repository.Open(ctx, a.fs, root, a.config)
	if err != nil {
		return nil, fmt.Errorf("failed to open module %s: %w", root, err)
	}
	defer unit.Close()

	emitter := diagnostic.NewEmitter(unit.Name)
	p := pass.New(a.config, unit, emitter)
	checks := a.registry.enabled(p)
	for _, check := range checks.units {
		if err := check.Run(ctx, p); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			glog.Warningf("module %s: check %s failed: %v", unit.Name, check.Name(), err)
		}
	}
	for _, file := range unit.Python {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		glog.V(2).Infof("module %s: visiting %s", unit.Name, file.Path)
		checks.walk(p, file)
	}
	return &Result{Module: unit.Name, Root: root, Diagnostics: emitter.Diagnostics()}, nil
}
