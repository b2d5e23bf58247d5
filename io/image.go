package io

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseImage parses a line of comma separated base 10 integers into a
// program image. Whitespace around the line and around each word is ignored.
func ParseImage(text string) (image []int64, err error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		err = ErrImageEmpty
		return
	}

	words := strings.Split(text, ",")
	image = make([]int64, 0, len(words))
	for n, word := range words {
		word = strings.TrimSpace(word)
		var value int64
		value, err = strconv.ParseInt(word, 10, 64)
		if err != nil {
			image = nil
			err = &ErrImageSyntax{Index: n, Word: word}
			return
		}
		image = append(image, value)
	}

	return
}

// ReadImage reads a program image from the first line of r.
func ReadImage(r io.Reader) (image []int64, err error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "image read failed")
	}

	return ParseImage(line)
}

// LoadImage loads a program image from file fileName.
func LoadImage(fileName string) (image []int64, err error) {
	inf, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "open failed")
	}
	defer inf.Close()

	image, err = ReadImage(inf)
	if err != nil {
		return nil, errors.Wrapf(err, "%v", fileName)
	}

	return
}

// WriteImage writes a program image as a single line of comma separated integers.
func WriteImage(w io.Writer, image []int64) error {
	words := make([]string, len(image))
	for n, value := range image {
		words[n] = strconv.FormatInt(value, 10)
	}

	_, err := io.WriteString(w, strings.Join(words, ",")+"\n")
	if err != nil {
		return errors.Wrap(err, "image write failed")
	}

	return nil
}
