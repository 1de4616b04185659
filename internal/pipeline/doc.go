// Package pipeline implements the multi-phase OHLCV transform: input
// validation and standardization, per-row basic metrics, per-ticker windowed
// technical indicators, cross-sectional sector and industry comparison,
// per-ticker risk metrics, and a terminal sanitization pass that guarantees
// no NaN or infinity ever reaches the JSON boundary.
//
// The pipeline is stateless per call. A batch either completes every enabled
// phase for every surviving record or fails as a whole; individual malformed
// rows are dropped and counted rather than failing the batch.
package pipeline
