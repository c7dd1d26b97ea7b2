// Package hash stores secrets as one-way digests.
//
// Password writes go through Hash; the stored value is only ever compared
// with Verify.
package hash
