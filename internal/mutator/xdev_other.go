//go:build !unix

package mutator

func isCrossDevice(err error) bool {
	return false
}
