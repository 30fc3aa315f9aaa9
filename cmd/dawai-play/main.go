package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	dawai "github.com/jklim1015/Daw-AI"
	"github.com/jklim1015/Daw-AI/midiimport"
	"github.com/jklim1015/Daw-AI/oto"
)

func main() {
	play := flag.Bool("p", false, "Play the input songs (default behaviour when no other output is defined).")
	wavOut := flag.Bool("w", false, "Output the rendered song as .wav file.")
	rawOut := flag.Bool("r", false, "Output the rendered song as .raw file (headerless samples).")
	pcm := flag.Bool("c", false, "Convert audio to 16-bit signed PCM when outputting.")
	directory := flag.String("o", "", "Directory where to output all files. The directory and its parents are created if needed. By default, everything is placed in the same directory where the original song file is.")
	help := flag.Bool("h", false, "Show help.")
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	if !*rawOut && !*wavOut {
		*play = true // if the user gives nothing to output, then the default behaviour is just to play the file
	}
	process := func(filename string) error {
		song, err := readSong(filename)
		if err != nil {
			return err
		}
		buffer, err := song.Mixdown()
		if err != nil {
			return fmt.Errorf("mixdown failed: %v", err)
		}
		output := func(extension string, contents []byte) error {
			_, name := filepath.Split(filename)
			dir := *directory
			if dir == "" {
				dir = filepath.Dir(filename)
			}
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return fmt.Errorf("could not create output directory %v: %v", dir, err)
			}
			name = strings.TrimSuffix(name, filepath.Ext(name)) + extension
			f := filepath.Join(dir, name)
			if err := os.WriteFile(f, contents, 0644); err != nil {
				return fmt.Errorf("could not write file %v: %v", f, err)
			}
			return nil
		}
		if *wavOut {
			wav, err := dawai.Wav(buffer, song.SampleRate(), *pcm)
			if err != nil {
				return fmt.Errorf("could not generate .wav file: %v", err)
			}
			if err := output(".wav", wav); err != nil {
				return err
			}
		}
		if *rawOut {
			raw, err := dawai.Raw(buffer, *pcm)
			if err != nil {
				return fmt.Errorf("could not generate .raw file: %v", err)
			}
			if err := output(".raw", raw); err != nil {
				return err
			}
		}
		if *play {
			context, err := oto.NewContext(song.SampleRate())
			if err != nil {
				return fmt.Errorf("could not acquire oto AudioContext: %v", err)
			}
			defer context.Close()
			if err := context.PlayBuffer(buffer); err != nil {
				return fmt.Errorf("playback failed: %v", err)
			}
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		if err := process(param); err != nil {
			fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", param, err)
			retval = 1
		}
	}
	os.Exit(retval)
}

// readSong loads a song from a .json/.yml descriptor or imports a .mid file.
func readSong(filename string) (*dawai.Song, error) {
	if strings.EqualFold(filepath.Ext(filename), ".mid") {
		return midiimport.ImportFile(filename)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read file %v: %v", filename, err)
	}
	desc, err := dawai.ParseSongDescriptor(data)
	if err != nil {
		return nil, err
	}
	return dawai.LoadSong(desc, dawai.WavFileLoader)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Daw-AI command line utility for playing .json/.yml song files (or importing .mid files).\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
