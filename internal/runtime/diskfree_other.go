//go:build !unix

package runtime

import "errors"

func freeSpace(string) (int64, error) {
	return 0, errors.New("free space check unsupported on this platform")
}
