// Package bench runs a summation strategy repeatedly against a dataset,
// records the wall time of each call, and reduces the timings to mean,
// median, min and max.
package bench
