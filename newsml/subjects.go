package newsml

import "efewire/notices"

// SubjectScheme marks the wire service's topic classification scheme.
const SubjectScheme = "IptcSubjectCodes"

// extractSubjects returns the topic classification codes of the main
// structure, in document order. Absence is expected for some content
// types and yields nil.
func extractSubjects(main *Node, mainDuid string, log *notices.Log) []string {
	var codes []string
	collectSubjects(main, &codes)
	if len(codes) == 0 {
		log.Infof("newsml: item %s has no subject codes", mainDuid)
		return nil
	}
	return codes
}

func collectSubjects(n *Node, codes *[]string) {
	if n.Name == "Subject" && n.Attr("Scheme") == SubjectScheme {
		if code := n.Attr("FormalName"); code != "" {
			*codes = append(*codes, code)
		}
	}
	for _, c := range n.Children {
		if !c.IsText() {
			collectSubjects(c, codes)
		}
	}
}
