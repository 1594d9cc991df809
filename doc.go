/*
Package cabledraw converts a raster image into a G-code style command stream
for a three-cable trilaterating painting robot.

The pipeline quantizes the image to a small palette, splits it into per-color
layers, plans a toolpath per layer (a dot tour, scanline strokes or sprayed
edge contours), converts every planar position into cable-length coordinates
and assembles the final command stream while tracking paint consumption.

	opts := cabledraw.DefaultOptions()
	opts.Mode = cabledraw.ModeStrokes

	buf := cabledraw.BufferFromImage(img)
	result, err := cabledraw.Generate(buf, opts, func(frac float64, status string) {
		fmt.Printf("%3.0f%% %s\n", frac*100, status)
	})
	if err != nil {
		log.Fatal(err)
	}
	os.WriteFile("out.gcode", []byte(result.Text()), 0644)

The pipeline is synchronous and single-threaded; a Result and its command
stream are immutable once returned. Two concurrent runs must not share an
assembler or tracker, which Generate guarantees by constructing both per
call.
*/
package cabledraw
