package clip

// NewSampleProps returns props for a clip that fills a live window of the
// given size, centred on the canvas with an identity transform.
func NewSampleProps(liveWindowWidth, liveWindowHeight float64) Props {
	if liveWindowWidth <= 0 {
		liveWindowWidth = 640
	}
	if liveWindowHeight <= 0 {
		liveWindowHeight = 360
	}
	return Props{
		Shape: Shape{
			X:      -liveWindowWidth / 2,
			Y:      liveWindowHeight / 2,
			Width:  liveWindowWidth,
			Height: liveWindowHeight,
			ScaleX: 1,
			ScaleY: 1,
		},
		LiveWindowWidth:  liveWindowWidth,
		LiveWindowHeight: liveWindowHeight,
	}
}
