// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Command mdcore converts Markdown to HTML using the mdcore package. It is
// a thin wrapper around the library; all parsing and rendering decisions
// live there.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/inkdown/mdcore"
	"github.com/inkdown/mdcore/internal/diag"
)

// largeInputThreshold is the byte count above which the CLI logs a notice
// before converting. It has no effect on the conversion itself.
const largeInputThreshold = 10 << 20 // 10 MiB

var (
	outputPath    string
	dumpAST       bool
	softBreakFlag string
	allowSchemes  []string
	logFormat     string
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdcore [file]",
		Short: "Convert Markdown to HTML",
		Long: `mdcore reads Markdown from a file argument or, if none is given, from
standard input, and writes the rendered HTML to standard output or to
the file named by --output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConvert,
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write HTML to this file instead of stdout")
	cmd.Flags().BoolVar(&dumpAST, "ast", false, "print the parse tree instead of rendering HTML")
	cmd.Flags().StringVar(&softBreakFlag, "soft-break", "space", `how to render a soft line break: "space" or "newline"`)
	cmd.Flags().StringSliceVar(&allowSchemes, "allow-scheme", nil, "restrict link/image destinations to these URL schemes (repeatable); unset allows all")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", `diagnostic log format: "text" or "json"`)
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	v := viper.New()
	v.SetEnvPrefix("MDCORE")
	v.AutomaticEnv()
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})

	if v.GetString("log-format") == "json" {
		diag.SetLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}

	source, err := readSource(args)
	if err != nil {
		return fmt.Errorf("mdcore: %w", err)
	}
	diag.LargeInput(len(source), largeInputThreshold)

	doc := mdcore.ParseDocument(source)

	out, closeOut, err := openOutput(v.GetString("output"))
	if err != nil {
		return fmt.Errorf("mdcore: %w", err)
	}
	defer closeOut()

	if v.GetBool("ast") {
		return mdcore.DumpAST(out, doc)
	}

	// An empty list means --allow-scheme was not given; RenderOptions only
	// skips the scheme check for a nil slice.
	schemes := v.GetStringSlice("allow-scheme")
	if len(schemes) == 0 {
		schemes = nil
	}
	opts := mdcore.RenderOptions{
		SoftBreak:         softBreakMode(v.GetString("soft-break")),
		AllowedURLSchemes: schemes,
	}
	return mdcore.RenderHTMLTo(out, doc, opts)
}

func softBreakMode(s string) mdcore.SoftBreakMode {
	if s == "newline" {
		return mdcore.SoftBreakAsNewline
	}
	return mdcore.SoftBreakAsSpace
}

func readSource(args []string) (string, error) {
	r := io.Reader(os.Stdin)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// openOutput returns the writer to render into and a func to release any
// resource it holds. Stdout is never closed.
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
