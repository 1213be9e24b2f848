// Package serialization stores trained models in the .born checkpoint format.
//
// A checkpoint is a fixed 64-byte prefix, a JSON header and a data section
// of little-endian float64 values aligned to 64 bytes:
//
//	0x00  [4 bytes: Magic "BORN"]
//	0x04  [4 bytes: Version (uint32 LE)]
//	0x08  [4 bytes: Flags (uint32 LE)]
//	0x0C  [4 bytes: Reserved]
//	0x10  [8 bytes: Header size (uint64 LE)]
//	0x18  [8 bytes: Data size (uint64 LE)]
//	0x20  [32 bytes: SHA-256 of the data section]
//	0x40  [Header: JSON metadata]
//	      [Padding to 64 bytes]
//	      [Tensor data]
//
// Example usage:
//
//	state := map[string]*tensor.RawTensor{"weights": w, "bias": b}
//	err := serialization.Save("model0.born", state, serialization.Header{ModelType: "nash"})
//
//	ckpt, err := serialization.Load("model0.born")
//	w := ckpt.Tensors["weights"]
package serialization
