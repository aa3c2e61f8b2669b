package ppu

import (
	"sort"
)

// maxObjectsPerLine is the number of objects the hardware is able to
// draw on a single scanline.
const maxObjectsPerLine = 10

// Object is used to define the attributes of an object in OAM, as
// selected for the current scanline.
type Object struct {
	y, x  uint8
	id    uint8
	attr  objectAttributes
	index uint8 // position in OAM, used to break ties in priority
}

// scanOAM selects the objects that overlap the current scanline.
// OAM is searched in order and the search stops once 10 objects have
// been found, so objects later in OAM are dropped regardless of their
// position. The selection is then ordered by priority.
func (p *PPU) scanOAM() {
	oam := p.b.OAM()
	size := int(p.lcdc.SpriteSize)
	ly := int(p.ly) + 16

	p.objCount = 0
	for i := 0; i < 40 && p.objCount < maxObjectsPerLine; i++ {
		y := int(oam[i*4])
		if ly >= y && ly < y+size {
			p.objBuffer[p.objCount] = Object{
				y:     oam[i*4],
				x:     oam[i*4+1],
				id:    oam[i*4+2],
				attr:  decodeObjectAttributes(oam[i*4+3]),
				index: uint8(i),
			}
			p.objCount++
		}
	}

	sortObjects(p.objBuffer[:p.objCount])
}

// sortObjects orders objects from highest to lowest priority. An
// object with a lower X coordinate has priority, and when the X
// coordinates match, the object that comes first in OAM wins.
func sortObjects(objs []Object) {
	sort.SliceStable(objs, func(i, j int) bool {
		if objs[i].x != objs[j].x {
			return objs[i].x < objs[j].x
		}
		return objs[i].index < objs[j].index
	})
}
