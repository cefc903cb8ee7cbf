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
	"os"

	"github.com/spf13/cobra"

	"github.com/symbolforge/collide2077/adler32"
	"github.com/symbolforge/collide2077/sha256x"
)

// newEncodeCmd is the collide2077 equivalent of the source repo's
// cmd/encode: instead of a single SHA-1 digest it prints the (Adler-32,
// SHA-256) pair a target hash list needs, since those are the two hashes
// the engine's prefilter and confirmation stages require.
func newEncodeCmd() *cobra.Command {
	var filename string
	var empty bool

	cmd := &cobra.Command{
		Use:   "encode [string]",
		Short: "Print the (Adler-32, SHA-256) hash pair for a string or file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var input []byte
			switch {
			case empty:
				input = []byte{}
			case filename != "":
				data, err := os.ReadFile(filename)
				if err != nil {
					return err
				}
				input = data
			case len(args) > 0:
				input = []byte(args[0])
			default:
				return fmt.Errorf("expected a --file flag or a string argument")
			}

			digest, err := sha256x.HashBytes(input)
			if err != nil {
				return err
			}
			fmt.Printf("%d %X\n", adler32.Checksum(input), digest.Bytes())
			return nil
		},
	}
	cmd.Flags().StringVar(&filename, "file", "", "path to a file that should be hashed")
	cmd.Flags().BoolVar(&empty, "empty", false, "hash the empty string")
	return cmd
}
