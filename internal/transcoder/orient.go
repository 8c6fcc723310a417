package transcoder

import "image"

// applyOrientation bakes the EXIF orientation (tag values 1-8) into the pixel
// data, so downstream artifacts need no orientation tag to display upright.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return transform(img, true, func(w, h, x, y int) (int, int) { return w - 1 - x, y })
	case 3:
		return transform(img, true, func(w, h, x, y int) (int, int) { return w - 1 - x, h - 1 - y })
	case 4:
		return transform(img, true, func(w, h, x, y int) (int, int) { return x, h - 1 - y })
	case 5:
		return transform(img, false, func(w, h, x, y int) (int, int) { return y, x })
	case 6:
		// rotate 90° clockwise
		return transform(img, false, func(w, h, x, y int) (int, int) { return y, h - 1 - x })
	case 7:
		return transform(img, false, func(w, h, x, y int) (int, int) { return w - 1 - y, h - 1 - x })
	case 8:
		// rotate 270° clockwise
		return transform(img, false, func(w, h, x, y int) (int, int) { return w - 1 - y, x })
	default:
		// 1, or no tag at all
		return img
	}
}

// transform copies src into a new raster, mapping each destination pixel
// (x, y) to the source pixel returned by pick. When sameAxes is false the
// destination swaps width and height. The w/h passed to pick are the source
// dimensions.
func transform(src image.Image, sameAxes bool, pick func(w, h, x, y int) (int, int)) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	dstW, dstH := w, h
	if !sameAxes {
		dstW, dstH = h, w
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			sx, sy := pick(w, h, x, y)
			dst.Set(x, y, src.At(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return dst
}
