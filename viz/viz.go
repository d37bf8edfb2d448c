// Package viz derives the static render data of a network: where every
// neuron sits in 3D space and which subset of the weight matrix is worth
// drawing. Both run once at startup from the loaded model; nothing here
// depends on a particular input sample.
package viz
