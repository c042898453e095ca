package backend

// Dataset aggregates every channel discovered in a trace.
type Dataset struct {
	Series []*Series
	// seriesMapping maps from channel identifiers used by the trace
	// reader to the index of a series in this structure.
	seriesMapping map[int]int
}

func (d *Dataset) Initialized() bool {
	if len(d.Series) == 0 {
		return false
	}
	init := true
	for _, s := range d.Series {
		init = init && s.Initialized()
	}
	return init
}

// Domain returns the time interval covered by the union of all channels.
func (d *Dataset) Domain() (dMin int64, dMax int64) {
	first := true
	for _, s := range d.Series {
		if !s.Initialized() {
			continue
		}
		sMin, sMax := s.Domain()
		if first {
			dMin, dMax = sMin, sMax
			first = false
			continue
		}
		dMin = min(sMin, dMin)
		dMax = max(sMax, dMax)
	}
	return dMin, dMax
}

// SetHeadings registers channels for a dataset. It must be invoked at
// least once prior to the first call to [Insert]. It may be invoked
// additional times to register new channels.
//
// The series slice provides the trace reader's ID for each channel,
// which is likely to differ from the index used to store the data in
// this type.
func (d *Dataset) SetHeadings(names, units []string, series []int) {
	if d.seriesMapping == nil {
		d.seriesMapping = make(map[int]int)
	}
	for i, identifier := range series {
		d.seriesMapping[identifier] = len(d.Series)
		d.Series = append(d.Series, NewSeries(names[i], units[i]))
	}
}

// Insert the sample into the channel with the given reader ID. Will
// panic if that channel does not have a heading previously registered
// via [SetHeadings].
func (d *Dataset) Insert(series int, sample Sample) {
	localIdx := d.seriesMapping[series]
	d.Series[localIdx].Insert(sample)
}

// Snapshots captures a point-in-time view of every channel.
func (d *Dataset) Snapshots() []ChannelSnapshot {
	out := make([]ChannelSnapshot, len(d.Series))
	for i, s := range d.Series {
		out[i] = s.Snapshot()
	}
	return out
}
