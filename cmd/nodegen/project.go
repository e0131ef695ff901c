package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nodegen/nodegen/compiler/gen"
	"github.com/nodegen/nodegen/compiler/load"
)

// Project is the decoded nodegen.yaml project file. Flags on the
// generate command override individual fields.
type Project struct {
	// Source is the directory holding *.schema.json and *.jsonld.
	Source string `yaml:"source"`
	// Target is the output directory for generated code.
	Target string `yaml:"target"`
	// Package is the import path of the generated package.
	Package string `yaml:"package"`
	// Header is prepended to every generated file.
	Header string `yaml:"header"`
	// Formats restricts per-format encoder emission.
	Formats []string `yaml:"formats"`
	// Features enables optional features by name.
	Features []string `yaml:"features"`
	// Workers bounds parallel loading and emission.
	Workers int `yaml:"workers"`
	// Duplicates is the title-collision policy: strict or last-wins.
	Duplicates string `yaml:"duplicates"`
}

const defaultHeader = "Code generated by nodegen. DO NOT EDIT."

// loadProject reads the project file. A missing file at the default
// location yields the zero project so flags alone can drive a run; a
// missing file named explicitly is an error.
func loadProject(path string, explicit bool) (*Project, error) {
	p := &Project{
		Source: "schema",
		Target: "nodes",
		Header: defaultHeader,
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("nodegen: parsing %s: %w", path, err)
	}
	return p, nil
}

// loaderOptions maps the project onto loader configuration.
func (p *Project) loaderOptions() ([]load.Option, error) {
	var opts []load.Option
	switch p.Duplicates {
	case "", "strict":
	case "last-wins":
		opts = append(opts, load.WithDuplicatePolicy(load.LastWins))
	default:
		return nil, fmt.Errorf("nodegen: unknown duplicate policy %q", p.Duplicates)
	}
	if p.Workers > 0 {
		opts = append(opts, load.WithWorkers(p.Workers))
	}
	return opts, nil
}

// genOptions maps the project onto generation configuration.
func (p *Project) genOptions() ([]gen.Option, error) {
	opts := []gen.Option{
		gen.WithTarget(p.Target),
		gen.WithHeader(p.Header),
	}
	if p.Package != "" {
		opts = append(opts, gen.WithPackage(p.Package))
	}
	if len(p.Formats) > 0 {
		opts = append(opts, gen.WithFormats(p.Formats...))
	}
	if p.Workers > 0 {
		opts = append(opts, gen.WithWorkers(p.Workers))
	}
	features, err := featuresByName(p.Features)
	if err != nil {
		return nil, err
	}
	if len(features) > 0 {
		opts = append(opts, gen.WithFeatures(features...))
	}
	return opts, nil
}

func featuresByName(names []string) ([]gen.Feature, error) {
	var out []gen.Feature
	for _, name := range names {
		var found bool
		for _, f := range gen.AllFeatures {
			if f.Name == name {
				out = append(out, f)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("nodegen: unknown feature %q", name)
		}
	}
	return out, nil
}

func (p *Project) featureEnabled(name string) bool {
	for _, n := range p.Features {
		if n == name {
			return true
		}
	}
	return false
}
