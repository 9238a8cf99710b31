package extract

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"schedule-etl/internal/domain"
)

// The course source is a sequence of sibling <Courses> fragments with no
// enclosing root, so a root is synthesized before parsing. Pointer fields
// distinguish an absent child element from an empty one.
type xmlCourse struct {
	ClassID     *string   `xml:"classid"`
	Cred        *string   `xml:"cred"`
	Description *string   `xml:"description"`
	Syllabus    *string   `xml:"syllabus"`
	Term        *string   `xml:"term"`
	Years       *string   `xml:"years"`
	Classes     *xmlClass `xml:"classes"`
}

type xmlClass struct {
	Code *string `xml:"code"`
	Name *string `xml:"name"`
}

type xmlCourseList struct {
	Courses []xmlCourse `xml:"Courses"`
}

// Courses extracts the fragment-markup course catalog. A fragment is kept
// only when every scalar field and both nested class sub-fields are present;
// partial records are dropped silently.
func (e *Extractor) Courses(name string) ([]domain.Course, error) {
	b, err := e.readFile(name)
	if err != nil {
		return nil, err
	}

	wrapped := "<AllCourses>" + string(b) + "</AllCourses>"

	var list xmlCourseList
	if err := xml.Unmarshal([]byte(wrapped), &list); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}

	var courses []domain.Course
	for _, c := range list.Courses {
		if !complete(c.ClassID, c.Cred, c.Description, c.Syllabus, c.Term, c.Years) {
			continue
		}
		if c.Classes == nil || !complete(c.Classes.Code, c.Classes.Name) {
			continue
		}
		classID, err := strconv.Atoi(strings.TrimSpace(*c.ClassID))
		if err != nil {
			continue
		}
		credits, err := strconv.Atoi(strings.TrimSpace(*c.Cred))
		if err != nil {
			continue
		}
		courses = append(courses, domain.Course{
			ClassID:     classID,
			Name:        *c.Classes.Name,
			Code:        *c.Classes.Code,
			Description: *c.Description,
			Term:        *c.Term,
			Years:       *c.Years,
			Credits:     credits,
			Syllabus:    *c.Syllabus,
		})
	}
	return courses, nil
}

func complete(fields ...*string) bool {
	for _, f := range fields {
		if f == nil || strings.TrimSpace(*f) == "" {
			return false
		}
	}
	return true
}
