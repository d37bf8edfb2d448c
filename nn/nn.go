// Package nn evaluates a sequential stack of fully-connected layers and
// exposes the per-layer pre-activation and activation vectors the visualizer
// feeds on.
//
// The network is inference-only: weights are loaded once from a JSON model
// document and never change. A forward pass normalizes the raw input with the
// model's (mean, std) pair, then walks the layer stack:
//
//	net, _ := nn.LoadModel("model.json")
//	res, _ := net.Forward(pixels)
//	probs := nn.Softmax(res.PreActivations[len(res.PreActivations)-1])
//
// Activations[0] is the normalized input, Activations[i+1] the output of
// layer i. PreActivations[i] holds the linear sum of layer i before the
// nonlinearity and is never aliased with the activation vector, so later
// stages may read both safely.
package nn
