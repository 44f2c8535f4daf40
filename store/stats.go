package store

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// Build a tabular representation of container statistics.
func (c *Container) Stats() string {
	var (
		instances      int
		groupedObjects int
		timeKeys       int
	)
	for _, shape := range c.Shapes {
		if shape.Master != "" {
			instances++
		}
		if shape.Group != "" {
			groupedObjects++
		}
	}
	for _, light := range c.Lights {
		if light.Group != "" {
			groupedObjects++
		}
	}
	for _, camera := range c.Cameras {
		if camera.Group != "" {
			groupedObjects++
		}
	}
	for _, anim := range c.Animations {
		timeKeys += int(anim.NbTimeKeys)
	}

	totalObjects := len(c.Shapes) + len(c.Lights) + len(c.Cameras)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Category", "Entry", "Count"})
	table.Append([]string{"Objects", "---", strconv.Itoa(totalObjects)})
	table.Append([]string{"", "Shapes", strconv.Itoa(len(c.Shapes) - instances)})
	table.Append([]string{"", "Instances", strconv.Itoa(instances)})
	table.Append([]string{"", "Lights", strconv.Itoa(len(c.Lights))})
	table.Append([]string{"", "Cameras", strconv.Itoa(len(c.Cameras))})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Groups", "---", strconv.Itoa(len(c.Groups))})
	table.Append([]string{"", "Grouped objects", strconv.Itoa(groupedObjects)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Animation", "---", strconv.Itoa(len(c.Animations))})
	table.Append([]string{"", "Time keys", strconv.Itoa(timeKeys)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Images", "---", strconv.Itoa(len(c.Images))})
	table.SetFooter([]string{"Resolution", " ", fmt.Sprintf("%dx%d", c.Width, c.Height)})

	table.Render()
	return buf.String()
}

// Build a tabular representation of the live store contents.
func (st *SceneStore) Stats() string {
	return st.Snapshot().Stats()
}
