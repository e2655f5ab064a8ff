package casgate

import (
	"strings"
)

// ResponseParser turns the body of a validation response into an Outcome. Parse
// never fails: every problem with the body is reported as a Failure.
type ResponseParser interface {
	Parse(body []byte) Outcome
}

// plainTextParser understands the line based CAS 1.0 /validate response.
type plainTextParser struct{}

func (plainTextParser) Parse(body []byte) Outcome {
	lines := strings.Split(string(body), "\n")

	switch {
	case lines[0] == "yes" && len(lines) >= 2 && lines[1] != "":
		return Success{User: lines[1], Attributes: UserAttributes{}}
	case lines[0] == "no":
		return rejected()
	default:
		return malformed()
	}
}

// xmlParser understands the CAS 2.0 and 3.0 serviceResponse documents.
type xmlParser struct{}

func (xmlParser) Parse(body []byte) Outcome {
	root, err := parseXMLTree(body)
	if err != nil {
		log.Debugf("could not parse validation response: %s", err.Error())
		return malformed()
	}

	if root.name != "serviceresponse" {
		return rejected()
	}

	if failure := root.child("authenticationfailure"); failure != nil {
		code := failure.attr("code")
		if code == "" {
			return rejected()
		}
		return rejectedWithCode(code, failure.text)
	}

	success := root.child("authenticationsuccess")
	if success == nil {
		return rejected()
	}

	user := success.child("user")
	if user == nil || user.text == "" {
		return rejected()
	}

	return Success{
		User:       user.text,
		Attributes: collectAttributes(success.child("attributes")),
	}
}

// collectAttributes maps every child of the attributes element to its text,
// keyed by the normalized tag name. A name that repeats keeps all of its values
// in document order.
func collectAttributes(node *xmlNode) UserAttributes {
	attributes := UserAttributes{}
	if node == nil {
		return attributes
	}

	for _, c := range node.children {
		attributes[c.name] = append(attributes[c.name], c.text)
	}
	return attributes
}
