// Copyright (c) 2024 Symbol Not Found LLC
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/symbolforge/collide2077/knownnames"
)

// newMergeCmd is the collide2077 equivalent of the source repo's cmd/dedup:
// where dedup walked a directory deduplicating files by content hash, merge
// walks a set of known-names files deduplicating by SHA-256 key, combining
// several campaigns' recovered names into one file.
func newMergeCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "merge <known-names-file>...",
		Short: "Merge several known-names files into one, deduplicated by SHA-256",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			merged := knownnames.New()

			for _, path := range args {
				m, err := knownnames.Load(path)
				if err != nil {
					return fmt.Errorf("merge: %w", err)
				}
				if err := merged.Record(m.Values()); err != nil {
					return fmt.Errorf("merge: %w", err)
				}
				log.Info("merged file", slog.String("path", path), slog.Int("entries", m.Len()))
			}

			if err := merged.Save(outPath); err != nil {
				return err
			}
			log.Info("merge complete", slog.String("out", outPath), slog.Int("total", merged.Len()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "known.txt", "path to write the merged known-names file")
	return cmd
}
