package dom

// DOMException represents a DOM exception with a name and message.
// https://webidl.spec.whatwg.org/#idl-DOMException
type DOMException struct {
	Name    string
	Message string
}

func (e *DOMException) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return e.Name + ": " + e.Message
}

// Code returns the legacy numeric code for the exception name, or 0 when the
// name has no legacy code.
func (e *DOMException) Code() int {
	return ExceptionCode(e.Name)
}

// ExceptionCodeNames lists the names that carry a legacy code together with
// the constant name exposed on the DOMException interface object.
var ExceptionCodeNames = []struct {
	Name     string
	Constant string
	Code     int
}{
	{"IndexSizeError", "INDEX_SIZE_ERR", 1},
	{"DOMStringSizeError", "DOMSTRING_SIZE_ERR", 2},
	{"HierarchyRequestError", "HIERARCHY_REQUEST_ERR", 3},
	{"WrongDocumentError", "WRONG_DOCUMENT_ERR", 4},
	{"InvalidCharacterError", "INVALID_CHARACTER_ERR", 5},
	{"NoDataAllowedError", "NO_DATA_ALLOWED_ERR", 6},
	{"NoModificationAllowedError", "NO_MODIFICATION_ALLOWED_ERR", 7},
	{"NotFoundError", "NOT_FOUND_ERR", 8},
	{"NotSupportedError", "NOT_SUPPORTED_ERR", 9},
	{"InUseAttributeError", "INUSE_ATTRIBUTE_ERR", 10},
	{"InvalidStateError", "INVALID_STATE_ERR", 11},
	{"SyntaxError", "SYNTAX_ERR", 12},
	{"InvalidModificationError", "INVALID_MODIFICATION_ERR", 13},
	{"NamespaceError", "NAMESPACE_ERR", 14},
	{"InvalidAccessError", "INVALID_ACCESS_ERR", 15},
	{"ValidationError", "VALIDATION_ERR", 16},
	{"TypeMismatchError", "TYPE_MISMATCH_ERR", 17},
	{"SecurityError", "SECURITY_ERR", 18},
	{"NetworkError", "NETWORK_ERR", 19},
	{"AbortError", "ABORT_ERR", 20},
	{"URLMismatchError", "URL_MISMATCH_ERR", 21},
	{"QuotaExceededError", "QUOTA_EXCEEDED_ERR", 22},
	{"TimeoutError", "TIMEOUT_ERR", 23},
	{"InvalidNodeTypeError", "INVALID_NODE_TYPE_ERR", 24},
	{"DataCloneError", "DATA_CLONE_ERR", 25},
}

var exceptionCodes = func() map[string]int {
	m := make(map[string]int, len(ExceptionCodeNames))
	for _, e := range ExceptionCodeNames {
		m[e.Name] = e.Code
	}
	return m
}()

// ExceptionCode returns the legacy code for a DOMException name.
func ExceptionCode(name string) int {
	return exceptionCodes[name]
}

// NewDOMException creates a DOMException with the given name and message.
func NewDOMException(name, message string) *DOMException {
	return &DOMException{Name: name, Message: message}
}

// ErrHierarchyRequest creates a HierarchyRequestError.
func ErrHierarchyRequest(message string) *DOMException {
	return &DOMException{Name: "HierarchyRequestError", Message: message}
}

// ErrNotFound creates a NotFoundError.
func ErrNotFound(message string) *DOMException {
	return &DOMException{Name: "NotFoundError", Message: message}
}

// ErrInvalidCharacter creates an InvalidCharacterError.
func ErrInvalidCharacter(message string) *DOMException {
	return &DOMException{Name: "InvalidCharacterError", Message: message}
}

// ErrNotSupported creates a NotSupportedError.
func ErrNotSupported(message string) *DOMException {
	return &DOMException{Name: "NotSupportedError", Message: message}
}

// ErrInvalidState creates an InvalidStateError.
func ErrInvalidState(message string) *DOMException {
	return &DOMException{Name: "InvalidStateError", Message: message}
}

// ErrIndexSize creates an IndexSizeError.
func ErrIndexSize(message string) *DOMException {
	return &DOMException{Name: "IndexSizeError", Message: message}
}

// ErrWrongDocument creates a WrongDocumentError.
func ErrWrongDocument(message string) *DOMException {
	return &DOMException{Name: "WrongDocumentError", Message: message}
}

// ErrNamespace creates a NamespaceError.
func ErrNamespace(message string) *DOMException {
	return &DOMException{Name: "NamespaceError", Message: message}
}

// ErrInUseAttribute creates an InUseAttributeError.
func ErrInUseAttribute(message string) *DOMException {
	return &DOMException{Name: "InUseAttributeError", Message: message}
}

// ErrSyntax creates a SyntaxError.
func ErrSyntax(message string) *DOMException {
	return &DOMException{Name: "SyntaxError", Message: message}
}

// ErrInvalidNodeType creates an InvalidNodeTypeError.
func ErrInvalidNodeType(message string) *DOMException {
	return &DOMException{Name: "InvalidNodeTypeError", Message: message}
}

// TypeError is returned where the bindings must raise a JavaScript TypeError
// rather than a DOMException.
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string {
	return "TypeError: " + e.Message
}

// ErrType creates a TypeError.
func ErrType(message string) *TypeError {
	return &TypeError{Message: message}
}
