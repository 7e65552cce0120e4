package newsml

import (
	"strconv"
	"time"

	"efewire/notices"
	"efewire/types"
)

// extractPhoto locates the first photo structure of an item and builds
// an Image from its largest content item. Only the first photo is
// surfaced even when the source carries several. Absence of the photo
// structure, or of its file substructure, is expected for text-only
// items and yields nil.
func extractPhoto(ix *index, mainDuid string, publishedAt time.Time, log *notices.Log) *types.Image {
	photo := ix.firstWithPrefix(mainDuid+".photos", true)
	if photo == nil {
		log.Infof("newsml: item %s has no photo structure", mainDuid)
		return nil
	}
	photoDuid := photo.Attr("Duid")

	file := ix.firstWithPrefix(photoDuid+".file", false)
	if file == nil {
		log.Infof("newsml: photo %s has no file structure", photoDuid)
		return nil
	}

	best := largestContentItem(file)
	if best == nil {
		log.Infof("newsml: photo %s has no content items", photoDuid)
		return nil
	}

	img := &types.Image{
		DownloadURL: best.Attr("Href"),
		Filesize:    sizeInBytes(best),
		MimeType:    best.Find("MimeType").Attr("FormalName"),
		PublishedAt: publishedAt,
	}
	for _, c := range best.Find("Characteristics").propertyList() {
		switch c.Attr("FormalName") {
		case "Width":
			img.Width, _ = strconv.Atoi(c.Attr("Value"))
		case "Height":
			img.Height, _ = strconv.Atoi(c.Attr("Value"))
		case "Filename":
			img.Filename = c.Attr("Value")
		}
	}
	img.Caption = extractCaption(ix, photoDuid)
	return img
}

// largestContentItem picks the candidate with the strictly largest
// declared byte size. Ties keep the earliest-encountered candidate.
func largestContentItem(file *Node) *Node {
	var best *Node
	var bestSize int64 = -1
	for _, c := range file.Children {
		if c.Name != "ContentItem" {
			continue
		}
		if size := sizeInBytes(c); size > bestSize {
			best, bestSize = c, size
		}
	}
	return best
}

func sizeInBytes(item *Node) int64 {
	n, _ := strconv.ParseInt(item.Find("Characteristics", "SizeInBytes").InnerText(), 10, 64)
	return n
}

// extractCaption reads the photo's sibling ".text" structure, taking
// the first paragraph of its body content.
func extractCaption(ix *index, photoDuid string) string {
	text := ix.firstWithPrefix(photoDuid+".text", false)
	if text == nil {
		return ""
	}
	body := text.Find("ContentItem", "DataContent", "nitf", "body", "body.content")
	return firstParagraph(body).InnerText()
}

func firstParagraph(n *Node) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == "p" {
			return c
		}
		if !c.IsText() {
			if p := firstParagraph(c); p != nil {
				return p
			}
		}
	}
	return nil
}

// propertyList returns the Property children of a characteristics node.
func (n *Node) propertyList() []*Node {
	if n == nil {
		return nil
	}
	var props []*Node
	for _, c := range n.Children {
		if c.Name == "Property" {
			props = append(props, c)
		}
	}
	return props
}
