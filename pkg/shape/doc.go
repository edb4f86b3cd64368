// Package shape models shape variants — the candidate room and corridor
// polygons the engine chooses among — and the door handler that enumerates
// their permissible door positions.
package shape
