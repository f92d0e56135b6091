// Package serialization implements Born checkpoints: state dicts stored as
// a single canonical CBOR document.
//
//	Checkpoint {
//	  format:     "born-checkpoint"
//	  version:    1
//	  model_type: "Sequential"
//	  created_at: unix seconds
//	  metadata:   {string: string}
//	  tensors:    [{name, dtype, shape, data}]   // sorted by name
//	  checksum:   SHA-256 over the tensor records
//	}
//
// Canonical encoding makes the bytes a function of the state dict alone
// (apart from created_at), so two clones with equal weights produce equal
// tensor sections.
//
// Example usage:
//
//	// Save
//	err := serialization.WriteFile("model.cbor", "Linear", model.StateDict(), nil)
//
//	// Load
//	header, stateDict, err := serialization.ReadFile("model.cbor")
//	err = model.LoadStateDict(stateDict)
package serialization
