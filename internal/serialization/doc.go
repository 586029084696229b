// Package serialization reads and writes tensors in the SafeTensors format.
//
// Layout of a SafeTensors file:
//
//	[8 bytes]  header size N (uint64, little-endian)
//	[N bytes]  JSON header: {"name": {"dtype", "shape", "data_offsets"}, "__metadata__": {...}}
//	[rest]     tensor data, offsets relative to the end of the header
//
// Writers sort tensors by name and record a SHA-256 checksum of the data
// section under the "sha256" metadata key. Readers verify the checksum when
// present and reject headers whose offsets overlap or leave the data section.
//
// Example:
//
//	err := serialization.WriteFile("policy.safetensors", map[string]*tensor.RawTensor{
//	    "alpha":     policy.Alpha().Tensor().Raw(),
//	    "quantized": out.Raw(),
//	}, map[string]string{"mode": "learned_hard_sigmoid"})
//
//	f, err := serialization.ReadFile("weights.safetensors")
//	w, err := f.Tensor("layer.0.weight")
package serialization
