package lisp

// DefaultKeywords are the compiled-in word lists, one per slot.
var DefaultKeywords = []string{
	"not defun + - * / = < > <= >= princ eval apply funcall quote identity function " +
		"complement backquote lambda set setq setf defmacro gensym make symbol intern " +
		"name value plist get getf putprop remprop hash array aref car cdr caar cadr " +
		"cdar cddr first second third rest last cons list append reverse length nth " +
		"nthcdr member assoc mapcar mapc maplist mapcan if cond case when unless let " +
		"let* flet labels progn prog1 prog2 block return return-from loop do dolist " +
		"dotimes catch throw error cerror format print write read defvar defparameter " +
		"defconstant defclass defmethod defgeneric defstruct make-instance",
	"and or nil t",
}
