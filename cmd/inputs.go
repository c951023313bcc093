// BiGAnts: Bi-clustering Results Analysis Library
// Copyright (c) 2022 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/ptra/blob/master/LICENSE.txt>.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bigants/app"
	"bigants/config"
	"bigants/results"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const inputArgs = "exprFile networkFile solutionFile"

// analysis is a solution mapped onto its preprocessed inputs.
type analysis struct {
	ds    *results.Dataset
	res   *results.Results
	close func() error
}

// load parses and preprocesses the inputs of an optimizer run and maps the solution onto them.
func (r *runner) load(ctx context.Context, args []string) (*analysis, error) {
	expr, err := app.ParseExpression(args[0])
	if err != nil {
		return nil, err
	}
	net, err := app.ParseNetwork(args[1])
	if err != nil {
		return nil, err
	}
	ds, err := app.Preprocess(expr, net, r.cfg.Preprocess())
	if err != nil {
		return nil, err
	}
	sol, err := app.ParseSolution(args[2])
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.cfg.Output(), 0755); err != nil {
		return nil, err
	}
	a := &analysis{ds: ds, close: func() error { return nil }}
	opts := results.Options{
		Name:    r.cfg.Name(),
		Convert: r.cfg.Convert(),
		OrigID:  r.cfg.OrigID(),
		Figure:  r.cfg.Figure(),
	}
	if opts.Convert {
		services, err := config.LoadServices()
		if err != nil {
			return nil, err
		}
		resolver, closeCache, err := services.Resolver(r.cfg.Species())
		if err != nil {
			return nil, err
		}
		opts.Resolver = resolver
		a.close = closeCache
	}
	if a.res, err = results.New(ctx, ds, sol, opts); err != nil {
		_ = a.close()
		return nil, err
	}
	return a, nil
}

// run loads the inputs given as command arguments and calls fn on them.
func (r *runner) run(cmd *cobra.Command, args []string, fn func(ctx context.Context, a *analysis) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := r.load(ctx, args)
	if err != nil {
		return err
	}
	defer func() {
		if e := a.close(); err == nil {
			err = e
		}
	}()
	return fn(ctx, a)
}

// output returns the name of an output figure.
func (r *runner) output(kind string) string {
	return filepath.Join(r.cfg.Output(), fmt.Sprintf("%s-%s.%s", r.cfg.Name(), kind, r.cfg.Format()))
}

// labelFlags are the files with the patient IDs of the two known classes.
type labelFlags struct {
	file1, file2 string
}

func (l *labelFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&l.file1, "trueLabels1", "", "A file with the patient IDs of the first known class.")
	cmd.Flags().StringVar(&l.file2, "trueLabels2", "", "A file with the patient IDs of the second known class.")
}

// parse returns the known classes, or nil when no label files are given.
func (l *labelFlags) parse() (*results.TrueLabels, error) {
	if l.file1 == "" && l.file2 == "" {
		return nil, nil
	}
	if l.file1 == "" || l.file2 == "" {
		return nil, errors.New("both --trueLabels1 and --trueLabels2 are required")
	}
	labels, err := app.ParseTrueLabels(l.file1, l.file2)
	if err != nil {
		return nil, err
	}
	log.Info().Int("class1", len(labels[0])).Int("class2", len(labels[1])).Msg("Parsed true labels")
	return &labels, nil
}
