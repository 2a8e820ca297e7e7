package cursor

import (
	"encoding/base64"
	"image"
	"image/color"

	"rdviewer/internal/protocol"
	"rdviewer/internal/types"
)

// arrowShape is a 12x19 pointer: '#' outline, '.' fill, ' ' transparent.
var arrowShape = [...]string{
	"#           ",
	"##          ",
	"#.#         ",
	"#..#        ",
	"#...#       ",
	"#....#      ",
	"#.....#     ",
	"#......#    ",
	"#.......#   ",
	"#........#  ",
	"#.........# ",
	"#......#####",
	"#...#..#    ",
	"#..# #..#   ",
	"#.#  #..#   ",
	"##    #..#  ",
	"#     #..#  ",
	"       #..# ",
	"       ###  ",
}

// Arrow returns a default pointer image with its hotspot at the tip. Hosts
// that cannot read the system cursor shape send this one.
func Arrow() (img *image.RGBA, hotX, hotY int) {
	img = image.NewRGBA(image.Rect(0, 0, len(arrowShape[0]), len(arrowShape)))
	for y, row := range arrowShape {
		for x, c := range row {
			switch c {
			case '#':
				img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
			case '.':
				img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
	return img, 0, 0
}

// Encode packs an image into a cursor_data payload.
func Encode(id uint64, img *image.RGBA, hotX, hotY int) types.CursorData {
	b := img.Bounds()
	return types.CursorData{
		ID:     id,
		Data:   base64.StdEncoding.EncodeToString(protocol.PackRGBA(img)),
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		HotX:   hotX,
		HotY:   hotY,
	}
}
