//go:build !unix

package vgio

func mapFile(path string) (Source, error) {
	return readFile(path)
}
