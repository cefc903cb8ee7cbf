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

package sha256x

import (
	"encoding/binary"
	"io"
)

type Hasher interface {
	io.Writer
	Hash() Digest
	Reset()
}

type Digest interface {
	Bytes() []byte
}

// HashString is a simple interface for hashing input into a Digest.
//
// If intending to call this frequently, allocate the hasher once via New()
// and call Write(...) / Hash() / Reset() to reuse the block and digest
// arrays and avoid unnecessary re-allocations. (The collision driver's
// confirm step calls HashBytes, which allocates a fresh hasher per call.)
func HashString(input string) (Digest, error) {
	return HashBytes([]byte(input))
}

// HashBytes hashes the provided byte-slice into a Digest.
func HashBytes(input []byte) (Digest, error) {
	hasher := New()
	_, err := hasher.Write(input)
	if err != nil {
		return nil, err
	}
	return hasher.Hash(), nil
}

// SHA-256 uses a fixed block size of 512 bits, same as SHA-1, but a larger
// message schedule (64 32-bit words) and eight chaining values instead of
// five.
const BLOCK_BITS = 512
const BLOCK_BYTES = 64
const BLOCK_INTS = 16

// Reading and writing happens in uint32-sized pieces (aligning |bytes| at 4).
const BLOCKITEM_MASK = 0b11

// The digest is always 32 bytes, grouped into 8 32-bit words when computing.
const DIGEST_BYTES = 32
const DIGEST_INTS = 8

// Size of the message-schedule scratch buffer used when processing each block.
const SCRATCH_INTS = 64

// Internal state for computing the SHA-256 in 512-bit chunks.
type hasher struct {
	block  [BLOCK_INTS]uint32
	length uint64
	// Hashing works on the digest in 32 bit pieces, then is converted to
	// []byte when finalizing the digest.
	chainValue [DIGEST_INTS]uint32
}

// New returns a fresh Hasher with the FIPS-180-4 initial hash value.
func New() Hasher {
	hasher := new(hasher)
	hasher.Reset()
	return hasher
}

// Reset the length, the contents of the block and the initial digest value.
//
// This method is called automatically when Hash() is called; callers only
// need to use it if a message digest is being abandoned before being fully
// computed.
func (state *hasher) Reset() {
	state.length = 0
	clear(state.block[:])
	state.chainValue = initialHash
}

// Write hashes the contents of message but leaves the buffer ready for
// additional bytes. That is, it does not add the `1` bit, padding, and
// message length yet.
//
// Satisfies the io.Writer interface similar to other hashing algorithms in Go.
func (state *hasher) Write(message []byte) (int, error) {
	msglen := len(message)
	if msglen == 0 {
		return 0, nil
	}

	offset := int(state.length & (BLOCK_BYTES - 1))
	if msglen+offset < BLOCK_BYTES {
		// Write entire message, it will fit within the current block.
		state.copyBytes(message)
	} else {
		// More bytes in `message` than can fit within the block's capacity,
		// process enough to fill the current buffer and then process the rest.
		scratch := new([SCRATCH_INTS]uint32)
		index := BLOCK_BYTES - offset
		state.copyBytes(message[:index])
		state.mixBits(scratch)

		for index < msglen {
			next := index + BLOCK_BYTES
			if next > msglen {
				next = msglen
			}
			state.copyBytes(message[index:next])
			if next-index == BLOCK_BYTES {
				state.mixBits(scratch)
			}
			index = next
		}
	}

	return msglen, nil
}

// copyBytes copies the bytes in `message` into a sequence of integers
// (big-endian). The message slice should have no more bytes than can fit in
// the current block.
func (state *hasher) copyBytes(message []byte) {
	msgi := uint32(0)
	msglen := uint32(len(message))
	length := state.length
	blocki := uint32(state.length&(BLOCK_BYTES-1)) >> 2
	value := state.block[blocki]

	for msgi < msglen {
		value = (value << 8) + uint32(message[msgi])
		msgi, length = msgi+1, length+1
		if length&BLOCKITEM_MASK == 0 {
			state.block[blocki] = value
			value, blocki = 0, blocki+1
		}
	}
	if length&BLOCKITEM_MASK != 0 {
		state.block[blocki] = value
	}
	state.length = length
}

// mixBits applies the SHA-256 compression function to the contents of the
// current block, as defined by the Secure Hash Standard published by NIST
// in FIPS PUB 180-4.
//
// (prepare the message schedule W, a scratch space of 64 uint32)
// W_t = M_t                                                   0 <= t <= 15
// W_t = sigma1(W_(t-2)) + W_(t-7) + sigma0(W_(t-15)) + W_(t-16)  16 <= t <= 63
//
// (initialize working variables {a..h} from the latest hash value, then for
// t from 0 to 63 apply the round function using constants K_t)
func (state *hasher) mixBits(scratch *[SCRATCH_INTS]uint32) {
	for i := 0; i < 16; i++ {
		scratch[i] = state.block[i]
	}
	for i := 16; i < SCRATCH_INTS; i++ {
		s0 := rotateR(scratch[i-15], 7) ^ rotateR(scratch[i-15], 18) ^ (scratch[i-15] >> 3)
		s1 := rotateR(scratch[i-2], 17) ^ rotateR(scratch[i-2], 19) ^ (scratch[i-2] >> 10)
		scratch[i] = scratch[i-16] + s0 + scratch[i-7] + s1
	}

	a, b, c, d := state.chainValue[0], state.chainValue[1], state.chainValue[2], state.chainValue[3]
	e, f, g, h := state.chainValue[4], state.chainValue[5], state.chainValue[6], state.chainValue[7]

	for i := 0; i < SCRATCH_INTS; i++ {
		S1 := rotateR(e, 6) ^ rotateR(e, 11) ^ rotateR(e, 25)
		ch := (e & f) ^ (^e & g)
		t1 := h + S1 + ch + roundK[i] + scratch[i]
		S0 := rotateR(a, 2) ^ rotateR(a, 13) ^ rotateR(a, 22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		t2 := S0 + maj

		h, g, f, e = g, f, e, d+t1
		d, c, b, a = c, b, a, t1+t2
	}

	state.chainValue[0] += a
	state.chainValue[1] += b
	state.chainValue[2] += c
	state.chainValue[3] += d
	state.chainValue[4] += e
	state.chainValue[5] += f
	state.chainValue[6] += g
	state.chainValue[7] += h

	clear(state.block[:])
	clear(scratch[:])
}

// initialHash is the FIPS-180-4 SHA-256 initial chaining value, the first
// 32 bits of the fractional parts of the square roots of the first 8 primes.
var initialHash = [DIGEST_INTS]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// roundK is the FIPS-180-4 round-constant table, the first 32 bits of the
// fractional parts of the cube roots of the first 64 primes.
var roundK = [SCRATCH_INTS]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// rotateR rotates the bits of an unsigned 32-bit integer to the right.
func rotateR(value uint32, bits uint32) uint32 {
	return (value >> bits) | (value << (32 - bits))
}

// Hash performs the final post-processing and returns the message digest.
// Satisfies the io.Writer-adjacent contract used throughout this package:
// after calling Hash, the hasher is reset and ready for reuse.
func (state *hasher) Hash() Digest {
	length := state.length
	scratch := new([SCRATCH_INTS]uint32)

	write1bit(&state.block, byte(length&(BLOCK_BYTES-1)))

	if length&(BLOCK_BYTES-1) >= 56 {
		// current block is too full for the length value, mix bits and use
		// the next block.
		state.length += BLOCK_BYTES - (length & (BLOCK_BYTES - 1))
		state.mixBits(scratch)
	}

	state.block[BLOCK_INTS-2] = uint32(length >> 29)
	state.block[BLOCK_INTS-1] = uint32(length&0x1FFFFFFF) << 3
	state.length += BLOCK_BYTES - (state.length & (BLOCK_BYTES - 1))
	state.mixBits(scratch)

	digest := newDigest(state.chainValue)
	state.Reset()
	return digest
}

// write1bit writes a single `1` bit after the message contents. blockpos is
// the length of the written contents of block, 0 <= blockpos < BLOCK_BYTES.
func write1bit(block *[BLOCK_INTS]uint32, blockpos byte) {
	blocki := blockpos >> 2
	switch blockpos & BLOCKITEM_MASK {
	case 0:
		block[blocki] = 0x80_00_00_00
	case 1:
		block[blocki] = (block[blocki] << 24) | 0x00_80_00_00
	case 2:
		block[blocki] = (block[blocki] << 16) | 0x00_00_80_00
	case 3:
		block[blocki] = (block[blocki] << 8) | 0x00_00_00_80
	}
}

// newDigest constructs a Digest result as a byte array, from the eight
// integers of the hash.
func newDigest(ints [DIGEST_INTS]uint32) Digest {
	digest := digest{}
	for i := 0; i < DIGEST_INTS; i++ {
		binary.BigEndian.PutUint32(digest.bytes[i*4:], ints[i])
	}
	return digest
}

type digest struct {
	bytes [DIGEST_BYTES]byte
}

func (d digest) Bytes() []byte {
	return d.bytes[:]
}
